package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	appName = "relbuild"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Name of the configuration file looked up in the working directory and
	// the user configuration directory.
	ConfigFileName = "config.json"
)

// Host-relative layout under the build base directory.
const (
	SourceDir     = "git"          // Source checkout.
	SourceArchive = "godot.tar.gz" // Source archive mounted into every container.
	GlueDir       = "mono-glue"    // Generated glue code shared between targets.
	OutDir        = "out"          // Root of per-target output.
	LogDir        = "out/logs"     // Per-target build logs.
)

// Path to the user configuration directory.
//
//	Linux:   $XDG_CONFIG_HOME/relbuild or ~/.config/relbuild
//	macOS:   ~/Library/Application Support/relbuild
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// Path to the user-level configuration file, used when the working directory
// has none.
func UserConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// Path to a target's output directory under base.
func Output(base, sub string) string {
	return filepath.Join(base, OutDir, filepath.FromSlash(sub))
}

// Path to a target's log file under base.
func Log(base, name string) string {
	return filepath.Join(base, filepath.FromSlash(LogDir), name)
}
