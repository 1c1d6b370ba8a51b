package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/cruciblehq/relbuild/internal"
)

// Represents the root command for relbuild.
var RootCmd struct {
	Quiet      bool   `short:"q" help:"Only log warnings and errors, and do not echo command output."`
	Verbose    bool   `short:"v" help:"Include source locations in log records."`
	Debug      bool   `short:"d" help:"Enable debug output."`
	ConfigFile string `name:"config" help:"Configuration file (.json or .toml) used instead of the default lookup." placeholder:"PATH" type:"path"`
	DryRun     bool   `short:"n" help:"Print commands instead of running them."`
	BaseDir    string `help:"Directory holding the checkout, archive and build output." default:"." placeholder:"DIR" type:"path"`

	Overrides ConfigFlags `embed:"" group:"Configuration overrides"`

	Config   ConfigCmd   `cmd:"" help:"Print or save the configuration."`
	Fetch    FetchCmd    `cmd:"" help:"Fetch the build images from the registry."`
	Checkout CheckoutCmd `cmd:"" help:"Check out the source, verify its version and archive it."`
	Run      RunCmd      `cmd:"" help:"Run build targets."`
	Release  ReleaseCmd  `cmd:"" help:"Run a full release: fetch, checkout, version check, archive, build all."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
//
// SIGINT and SIGTERM cancel the context handed to the subcommand, which
// kills any running container command.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Builds release binaries inside containers.\n\nEach platform target runs in its own podman or docker container; targets run one at a time."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	internal.EnableModes(RootCmd.Quiet, RootCmd.Debug, RootCmd.Verbose)
	slog.SetDefault(internal.Logger(os.Stderr).WithGroup(internal.Name))
}
