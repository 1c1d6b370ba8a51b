// Package config holds the build configuration.
//
// The configuration is a flat set of fields (registry host, credentials,
// image namespaces, signing parameters, core count, build name) stored as
// JSON or TOML. Values are layered in order: [Default], the configuration
// file ([LoadDefault] or an explicit [Load]), the environment
// ([Config.WithEnv]), and finally per-key overrides from the command line
// ([Config.Set]).
//
// Example usage:
//
//	cfg, err := config.LoadDefault(cwd, config.Default())
//	if err != nil {
//	    return err
//	}
//
//	cfg, err = cfg.WithEnv(os.LookupEnv)
//	if err != nil {
//	    return err
//	}
package config
