package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables read by [Config.WithEnv].
const (
	EnvNumCores  = "NUM_CORES"
	EnvBuildName = "BUILD_NAME"
)

// Name of the optional env file loaded from the working directory.
const EnvFileName = ".env"

// Loads dir/.env into the process environment.
//
// Variables already set in the environment win. A missing file is not an
// error.
func LoadEnvFile(dir string) error {
	err := godotenv.Load(filepath.Join(dir, EnvFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return wrap(ErrConfig, err)
	}
	return nil
}

// Returns a copy of c with the core count and build name overridden from the
// environment, when set.
func (c Config) WithEnv(lookup func(string) (string, bool)) (Config, error) {
	if v, ok := lookup(EnvNumCores); ok && v != "" {
		if err := c.Set("num_core", v); err != nil {
			return c, err
		}
	}
	if v, ok := lookup(EnvBuildName); ok && v != "" {
		c.BuildName = v
	}
	return c, nil
}
