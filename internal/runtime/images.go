package runtime

import (
	"slices"

	"github.com/distribution/reference"
)

// Host used for images built locally.
const localRegistry = "localhost"

// Images anyone can pull.
var publicImages = []string{
	"godot-mono-glue",
	"godot-windows",
	"godot-ubuntu-64",
	"godot-ubuntu-32",
	"godot-javascript",
}

// Images that require registry authentication (proprietary SDKs).
var privateImages = []string{
	"godot-osx",
	"godot-android",
	"godot-ios",
	"uwp",
}

// Returns every known image, public first.
func Images() []string {
	return slices.Concat(publicImages, privateImages)
}

// Whether name is a private image.
func IsPrivate(name string) bool {
	return slices.Contains(privateImages, name)
}

// Whether name is in the image catalog.
func IsKnown(name string) bool {
	return slices.Contains(publicImages, name) || IsPrivate(name)
}

// Fully resolved container image identifier.
type ImageRef struct {
	Registry string // Registry host, "localhost" for local images.
	Path     string // Namespace path inside the registry. Empty for local images.
	Name     string // Image name.
	Tag      string // Version tag.
}

// Returns the reference as "<registry>/<path>/<name>:<tag>", or
// "<registry>/<name>:<tag>" when there is no namespace path.
func (r ImageRef) String() string {
	s := r.Registry + "/"
	if r.Path != "" {
		s += r.Path + "/"
	}
	return s + r.Name + ":" + r.Tag
}

// Whether the reference points at a locally built image.
func (r ImageRef) IsLocal() bool {
	return r.Registry == localRegistry
}

// Checks that the reference is a well-formed, tagged image name.
func (r ImageRef) Validate() error {
	named, err := reference.ParseNormalizedNamed(r.String())
	if err != nil {
		return wrap(ErrInvalidReference, err)
	}
	if _, ok := named.(reference.Tagged); !ok {
		return wrapf(ErrInvalidReference, "%s: missing tag", r)
	}
	return nil
}
