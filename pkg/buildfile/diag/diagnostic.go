package diag

import "fmt"

// Diagnostic is a single schema violation reported while loading a
// build file. The parser stops at the first violation, so a failed
// load normally carries exactly one diagnostic, but collectors must
// tolerate any number.
type Diagnostic struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	if d.Location.File == "" {
		return d.Location.Annotate(d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Location.File, d.Location.Annotate(d.Message))
}
