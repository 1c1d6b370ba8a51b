package cli

import (
	"context"
	"fmt"

	"github.com/cruciblehq/relbuild/internal"
)

// Represents the 'relbuild version' command.
type VersionCmd struct{}

// Prints the version string.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.Name, internal.VersionString())
	return nil
}
