// Package release sequences a full release.
//
// A [Pipeline] logs into the registry and fetches the build images, checks
// out and verifies the source, archives it, and runs every catalog target
// one after another. Each run is tagged with a unique id in the logs. Any
// failure stops the pipeline; no later step or target is attempted.
package release
