// Provides the on-disk layout used by relbuild.
//
// User-level paths follow XDG conventions on Linux and platform-native
// conventions on macOS and Windows. Build paths are relative to a base
// directory: the source checkout and archive sit at its root, and every
// target writes to out/<target> with its log under out/logs.
package paths
