package source

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Matches top-level "name = value" assignments.
var assignment = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.+?)\s*$`)

// Version fields read from the source tree's version file.
type Version struct {
	Major  string
	Minor  string
	Patch  string // Empty when the file has no patch number.
	Status string
}

// Returns "major.minor.patch-status", or "major.minor-status" without a
// patch number.
func (v Version) String() string {
	s := v.Major + "." + v.Minor
	if v.Patch != "" {
		s += "." + v.Patch
	}
	return s + "-" + v.Status
}

// Reads the version fields from a version file.
//
// Only top-level assignments are considered; comments, blank lines and
// other statements are ignored. Major, minor and status are required.
func ParseVersion(r io.Reader) (Version, error) {
	values := map[string]string{}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := assignment.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		values[m[1]] = unquote(m[2])
	}
	if err := sc.Err(); err != nil {
		return Version{}, wrap(ErrVersionFile, err)
	}

	v := Version{
		Major:  values["major"],
		Minor:  values["minor"],
		Patch:  values["patch"],
		Status: values["status"],
	}
	required := []struct{ key, val string }{
		{"major", v.Major},
		{"minor", v.Minor},
		{"status", v.Status},
	}
	for _, f := range required {
		if f.val == "" {
			return Version{}, wrapf(ErrVersionFile, "missing %q", f.key)
		}
	}
	return v, nil
}

// Returns the contents of a quoted string literal, or the bare value with
// any trailing comment removed.
func unquote(s string) string {
	if s[0] == '"' || s[0] == '\'' {
		if end := strings.IndexByte(s[1:], s[0]); end >= 0 {
			return s[1 : end+1]
		}
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
