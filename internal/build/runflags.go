package build

import (
	"path/filepath"
	"strconv"
)

// In-container directory every target runs in, and the root of all mounts.
const containerRoot = "/root/"

// Accumulates the flags of a container run invocation.
//
// Flags are appended in call order, which is the order they appear on the
// command line. Environment and mount values are never reordered, so the
// composed invocation is deterministic for a given target.
type runFlags struct {
	base string   // Host base directory mounts are relative to.
	args []string // Flags accumulated so far.
}

// Creates a new [runFlags] for an ephemeral container working in
// [containerRoot].
func newRunFlags(base string) *runFlags {
	return &runFlags{
		base: base,
		args: []string{"--rm", "-w", containerRoot},
	}
}

// Adds an environment variable.
func (f *runFlags) env(key, value string) {
	f.args = append(f.args, "--env", key+"="+value)
}

// Adds a boolean environment variable encoded as 0 or 1.
func (f *runFlags) envBool(key string, value bool) {
	v := "0"
	if value {
		v = "1"
	}
	f.env(key, v)
}

// Adds an integer environment variable.
func (f *runFlags) envInt(key string, value int) {
	f.env(key, strconv.Itoa(value))
}

// Adds volume mounts, host paths resolved against the base directory.
func (f *runFlags) mount(mounts ...Mount) {
	for _, m := range mounts {
		host := filepath.Join(f.base, filepath.FromSlash(m.Host))
		f.args = append(f.args, "-v", host+":"+containerRoot+m.Container)
	}
}

// Adds raw flags verbatim.
func (f *runFlags) raw(flags ...string) {
	f.args = append(f.args, flags...)
}

// Returns a copy of the accumulated flags.
func (f *runFlags) list() []string {
	return append([]string(nil), f.args...)
}
