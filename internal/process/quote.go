package process

import "strings"

// Characters that force an argument to be single-quoted.
const shellSpecial = " \t\n\"'`$\\*?[]{}()<>|&;"

// Returns a printable, shell-safe representation of args.
//
// The output is deterministic and can be pasted into a POSIX shell to run
// the same command.
func Quote(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, shellSpecial) {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}
