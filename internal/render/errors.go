package render

import (
	"fmt"
	"strings"
)

// MissingVariableError is returned when a template references placeholders
// that have no value.
type MissingVariableError struct {
	Template string
	Names    []string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("template %s: no value for placeholder(s) %s", e.Template, strings.Join(e.Names, ", "))
}

// TemplateNotFoundError is returned when a template does not exist.
type TemplateNotFoundError struct {
	Path string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Path)
}

// SyntaxError is returned for a malformed placeholder such as "${1}" or an
// unterminated "${".
type SyntaxError struct {
	Template string
	Line     int
	Reason   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("template %s:%d: %s", e.Template, e.Line, e.Reason)
}

// InstanceError attributes a render failure to one node and artifact.
type InstanceError struct {
	Hostname string
	Artifact string
	Err      error
}

func (e *InstanceError) Error() string {
	return fmt.Sprintf("%s: failed to render %s: %v", e.Hostname, e.Artifact, e.Err)
}

func (e *InstanceError) Unwrap() error {
	return e.Err
}
