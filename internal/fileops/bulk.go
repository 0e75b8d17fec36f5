package fileops

import (
	"fmt"
	"strings"
)

// Target is one file of a bulk operation. Name labels errors.
type Target struct {
	Path string
	Name string
}

// Report is the outcome of a bulk operation. It continues past individual
// failures.
type Report struct {
	Succeeded int
	Failed    int
	Errors    []string

	verb string
	dest string
}

// Summary returns the status line for the report.
func (r Report) Summary() string {
	if r.Failed == 0 {
		if r.dest != "" {
			return fmt.Sprintf("%s %d files to %s", r.verb, r.Succeeded, r.dest)
		}
		return fmt.Sprintf("%s %d files", r.verb, r.Succeeded)
	}
	return fmt.Sprintf("%s %d files, %d failed", r.verb, r.Succeeded, r.Failed)
}

// Details joins the per-file errors, or returns "" when all succeeded.
func (r Report) Details() string {
	return strings.Join(r.Errors, "; ")
}

func (r *Report) add(t Target, err error) {
	if err == nil {
		r.Succeeded++
		return
	}
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", t.Name, err))
}

// DeleteAll deletes every target.
func DeleteAll(targets []Target) Report {
	r := Report{verb: "Deleted"}
	for _, t := range targets {
		r.add(t, Delete(t.Path))
	}
	return r
}

// MoveAll moves every target into destDir. A partial move counts as a
// failure since the source is still present.
func MoveAll(targets []Target, destDir string) Report {
	r := Report{verb: "Moved", dest: destDir}
	for _, t := range targets {
		_, err := Move(t.Path, destDir)
		r.add(t, err)
	}
	return r
}
