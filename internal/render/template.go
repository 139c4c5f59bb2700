package render

import (
	"slices"
	"strings"
)

// Vars maps placeholder names to substitution values.
type Vars map[string]string

// Template is a parsed text template with ${NAME} placeholders.
// "$${" renders a literal "${"; any other "$" is copied through unchanged so
// shell variables like $HOME and $1 need no escaping.
type Template struct {
	name     string
	segments []segment
}

type segment struct {
	text        string
	placeholder bool
}

// Parse parses template text.
func Parse(name, text string) (*Template, error) {
	t := &Template{name: name}
	var lit strings.Builder
	line := 1

	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '\n':
			line++
			lit.WriteByte(c)
			i++
		case strings.HasPrefix(text[i:], "$${"):
			lit.WriteString("${")
			i += 3
		case strings.HasPrefix(text[i:], "${"):
			end := strings.IndexByte(text[i+2:], '}')
			if end < 0 {
				return nil, &SyntaxError{Template: name, Line: line, Reason: "unterminated placeholder"}
			}
			ident := text[i+2 : i+2+end]
			if !validIdent(ident) {
				return nil, &SyntaxError{Template: name, Line: line, Reason: "invalid placeholder ${" + ident + "}"}
			}
			flush()
			t.segments = append(t.segments, segment{text: ident, placeholder: true})
			i += 2 + end + 1
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return t, nil
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.name
}

// Placeholders returns the distinct placeholder names in sorted order.
func (t *Template) Placeholders() []string {
	var names []string
	for _, s := range t.segments {
		if s.placeholder {
			names = append(names, s.text)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Execute substitutes every placeholder. It fails without partial output
// when any placeholder has no entry in vars.
func (t *Template) Execute(vars Vars) (string, error) {
	var missing []string
	for _, name := range t.Placeholders() {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", &MissingVariableError{Template: t.name, Names: missing}
	}

	var b strings.Builder
	for _, s := range t.segments {
		if s.placeholder {
			b.WriteString(vars[s.text])
			continue
		}
		b.WriteString(s.text)
	}
	return b.String(), nil
}
