package config

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cruciblehq/relbuild/internal/paths"
)

// Serialization format of a configuration file.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", wrapf(ErrFormat, "%s: must be .json or .toml", path)
	}
}

// Loads the file at path on top of base.
//
// Only recognized keys are applied; unknown keys are ignored and fields the
// file does not mention keep their value from base.
func Load(path string, base Config) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return base, err
	}

	f, err := os.Open(path)
	if err != nil {
		return base, wrap(ErrConfig, err)
	}
	defer f.Close()

	return Decode(f, format, base)
}

// Decodes a configuration document from r on top of base.
func Decode(r io.Reader, format Format, base Config) (Config, error) {
	cfg := base

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return base, wrap(ErrConfig, err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&cfg)
		if err != nil {
			return base, wrap(ErrConfig, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			slog.Debug("ignoring unknown configuration keys", "keys", undecoded)
		}
	default:
		return base, wrapf(ErrFormat, "%q", format)
	}

	return cfg, nil
}

// Loads the default configuration file, if any, on top of base.
//
// The working directory is searched first, then the user configuration
// directory. A missing file is not an error; a malformed one is.
func LoadDefault(dir string, base Config) (Config, error) {
	for _, path := range []string{filepath.Join(dir, paths.ConfigFileName), paths.UserConfigFile()} {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		slog.Debug("loading configuration", "path", path)
		return Load(path, base)
	}
	return base, nil
}

// Writes cfg to w in the given format.
//
// JSON output is indented with keys sorted; TOML follows field order.
func Write(w io.Writer, cfg Config, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, cfg)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(cfg)
	default:
		return wrapf(ErrFormat, "%q", format)
	}
}

// Writes cfg to path, choosing the format from the extension.
func Save(path string, cfg Config) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return wrap(ErrConfig, err)
	}

	if err := Write(f, cfg, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encodes through a map so keys come out sorted.
func writeJSON(w io.Writer, cfg Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(m)
}
