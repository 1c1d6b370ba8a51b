package config

import (
	"runtime"
	"strconv"
	"strings"
)

const (

	// Registry hosting the official build images. Some of its images are
	// private and only accessible to selected contributors.
	DefaultRegistry = "registry.prehensile-tales.com"

	// Namespace path for public images.
	DefaultPublicPath = "godot"

	// Namespace path for private images.
	DefaultPrivatePath = "godot-private"

	// Build name distinguishing official builds from custom ones.
	DefaultBuildName = "custom_build"

	// Tag of the build images.
	DefaultImageVersion = "3.3-mono-6.12.0.114"
)

// Build configuration.
//
// A Config is a plain value: it is loaded once, overridden from the
// environment and the command line, then passed to the components that need
// it. Signing fields are carried for the signing scripts inside the
// containers; leaving any of them empty skips signing.
type Config struct {
	Registry        string `json:"registry" toml:"registry"`                   // Registry host for build images.
	Username        string `json:"username" toml:"username"`                   // Registry username.
	Password        string `json:"password" toml:"password"`                   // Registry password.
	PublicPath      string `json:"public_path" toml:"public_path"`             // Namespace path of public images.
	PrivatePath     string `json:"private_path" toml:"private_path"`           // Namespace path of private images.
	BuildName       string `json:"build_name" toml:"build_name"`               // Build name passed to every container.
	NumCore         int    `json:"num_core" toml:"num_core"`                   // Parallel jobs per container build.
	ImageVersion    string `json:"image_version" toml:"image_version"`         // Tag of the build images.
	SignKeystore    string `json:"sign_keystore" toml:"sign_keystore"`         // Path to a pkcs12 archive.
	SignPassword    string `json:"sign_password" toml:"sign_password"`         // Password for the private key.
	SignName        string `json:"sign_name" toml:"sign_name"`                 // Name of the signed application.
	SignURL         string `json:"sign_url" toml:"sign_url"`                   // URL of the signed application.
	OSXHost         string `json:"osx_host" toml:"osx_host"`                   // macOS host used for signing, e.g. "user@10.1.0.10".
	OSXKeyID        string `json:"osx_key_id" toml:"osx_key_id"`               // ID of the Apple signing certificate.
	OSXBundleID     string `json:"osx_bundle_id" toml:"osx_bundle_id"`         // Bundle id of the signed app.
	AppleID         string `json:"apple_id" toml:"apple_id"`                   // Apple ID for notarization.
	AppleIDPassword string `json:"apple_id_password" toml:"apple_id_password"` // Password for the Apple ID.
}

// Returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Registry:     DefaultRegistry,
		PublicPath:   DefaultPublicPath,
		PrivatePath:  DefaultPrivatePath,
		BuildName:    DefaultBuildName,
		NumCore:      runtime.NumCPU(),
		ImageVersion: DefaultImageVersion,
	}
}

// Returns the recognized configuration keys in a stable order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// Sets a field by its key.
//
// Returns [ErrUnknownKey] for keys not in [Keys] and [ErrInvalidValue] when
// num_core is not a positive integer.
func (c *Config) Set(key, value string) error {
	for _, f := range fields {
		if f.key != key {
			continue
		}
		if f.str != nil {
			*f.str(c) = value
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			return wrapf(ErrInvalidValue, "%s=%q: want a positive integer", key, value)
		}
		*f.num(c) = n
		return nil
	}
	return wrapf(ErrUnknownKey, "%q", key)
}

// Binds a key to the field it names. Exactly one accessor is set.
type field struct {
	key string
	str func(*Config) *string
	num func(*Config) *int
}

var fields = []field{
	{key: "registry", str: func(c *Config) *string { return &c.Registry }},
	{key: "username", str: func(c *Config) *string { return &c.Username }},
	{key: "password", str: func(c *Config) *string { return &c.Password }},
	{key: "public_path", str: func(c *Config) *string { return &c.PublicPath }},
	{key: "private_path", str: func(c *Config) *string { return &c.PrivatePath }},
	{key: "build_name", str: func(c *Config) *string { return &c.BuildName }},
	{key: "num_core", num: func(c *Config) *int { return &c.NumCore }},
	{key: "image_version", str: func(c *Config) *string { return &c.ImageVersion }},
	{key: "sign_keystore", str: func(c *Config) *string { return &c.SignKeystore }},
	{key: "sign_password", str: func(c *Config) *string { return &c.SignPassword }},
	{key: "sign_name", str: func(c *Config) *string { return &c.SignName }},
	{key: "sign_url", str: func(c *Config) *string { return &c.SignURL }},
	{key: "osx_host", str: func(c *Config) *string { return &c.OSXHost }},
	{key: "osx_key_id", str: func(c *Config) *string { return &c.OSXKeyID }},
	{key: "osx_bundle_id", str: func(c *Config) *string { return &c.OSXBundleID }},
	{key: "apple_id", str: func(c *Config) *string { return &c.AppleID }},
	{key: "apple_id_password", str: func(c *Config) *string { return &c.AppleIDPassword }},
}
