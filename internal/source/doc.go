// Package source prepares the source tree for a release.
//
// [Git.Checkout] clones the upstream repository into <base>/git and detaches
// at the requested ref, [Git.CheckVersion] compares the tree's version file
// against the release version, and [Git.Archive] packs the tree into
// <base>/godot.tar.gz, the archive every build container mounts.
package source
