package cli

import (
	"github.com/cruciblehq/relbuild/internal/config"
)

// One flag per configuration key. An empty value leaves the key alone.
type ConfigFlags struct {
	Registry        string `help:"Registry host for build images." placeholder:"HOST"`
	Username        string `help:"Registry username."`
	Password        string `help:"Registry password."`
	PublicPath      string `help:"Namespace path of public images." placeholder:"PATH"`
	PrivatePath     string `help:"Namespace path of private images." placeholder:"PATH"`
	BuildName       string `help:"Build name passed to every container." placeholder:"NAME"`
	NumCore         string `help:"Parallel jobs per container build." placeholder:"N"`
	ImageVersion    string `help:"Tag of the build images." placeholder:"TAG"`
	SignKeystore    string `help:"Path to the signing pkcs12 archive." placeholder:"PATH"`
	SignPassword    string `help:"Password for the signing key."`
	SignName        string `help:"Name of the signed application." placeholder:"NAME"`
	SignURL         string `name:"sign-url" help:"URL of the signed application." placeholder:"URL"`
	OSXHost         string `name:"osx-host" help:"macOS host used for signing." placeholder:"USER@HOST"`
	OSXKeyID        string `name:"osx-key-id" help:"ID of the Apple signing certificate." placeholder:"ID"`
	OSXBundleID     string `name:"osx-bundle-id" help:"Bundle id of the signed app." placeholder:"ID"`
	AppleID         string `name:"apple-id" help:"Apple ID for notarization."`
	AppleIDPassword string `name:"apple-id-password" help:"Password for the Apple ID."`
}

// Returns the flag values keyed by configuration key, in [config.Keys] order.
func (f ConfigFlags) values() []struct{ key, value string } {
	return []struct{ key, value string }{
		{"registry", f.Registry},
		{"username", f.Username},
		{"password", f.Password},
		{"public_path", f.PublicPath},
		{"private_path", f.PrivatePath},
		{"build_name", f.BuildName},
		{"num_core", f.NumCore},
		{"image_version", f.ImageVersion},
		{"sign_keystore", f.SignKeystore},
		{"sign_password", f.SignPassword},
		{"sign_name", f.SignName},
		{"sign_url", f.SignURL},
		{"osx_host", f.OSXHost},
		{"osx_key_id", f.OSXKeyID},
		{"osx_bundle_id", f.OSXBundleID},
		{"apple_id", f.AppleID},
		{"apple_id_password", f.AppleIDPassword},
	}
}

// Applies every non-empty flag to cfg.
func (f ConfigFlags) apply(cfg *config.Config) error {
	for _, v := range f.values() {
		if v.value == "" {
			continue
		}
		if err := cfg.Set(v.key, v.value); err != nil {
			return err
		}
	}
	return nil
}
