// Parses flags, loads the configuration and dispatches the relbuild commands.
//
// Global flags:
//
//	-q, --quiet      Only log warnings and errors, and do not echo command output.
//	-v, --verbose    Include source locations in log records.
//	-d, --debug      Enable debug output.
//	    --config     Configuration file used instead of the default lookup.
//	-n, --dry-run    Print commands instead of running them.
//	    --base-dir   Directory holding the checkout, archive and build output.
//
// Every configuration key also has an override flag (--registry,
// --num-core, ...). The effective configuration layers defaults, the
// configuration file, the .env file and environment, then those flags.
//
// Commands: config, fetch, checkout, run, release and version. Each command
// builds its own session; the first error is returned to main, which exits
// with status 1.
package cli
