package adapter

import "fmt"

// DuplicateToolNameError reports two endpoints whose derived names collide.
// Fatal at build time; the surface is never silently overwritten.
type DuplicateToolNameError struct {
	Name       string
	FirstPath  string
	SecondPath string
}

func (e *DuplicateToolNameError) Error() string {
	return fmt.Sprintf("duplicate adapted name %q: %s and %s", e.Name, e.FirstPath, e.SecondPath)
}
