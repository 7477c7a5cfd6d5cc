package travis

import (
	"fmt"
	"os"
	"strings"
)

// Var is a single environment assignment.
type Var struct {
	Name  string
	Value string
}

// Env is an ordered list of environment assignments.  One manifest string
// ("env.matrix" row, "env.global" item, or a matrix-include "env" value) may
// carry several space-separated assignments; values may be single- or
// double-quoted.
type Env []Var

// ParseEnv parses a manifest environment string in to an Env.
func ParseEnv(str string) (Env, error) {
	var ret Env
	rest := strings.TrimSpace(str)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			return nil, fmt.Errorf("parse env %q: %q is not a KEY=VALUE assignment", str, rest)
		}
		name := rest[:eq]
		if !validVarName(name) {
			return nil, fmt.Errorf("parse env %q: invalid variable name %q", str, name)
		}
		value, tail, err := scanValue(rest[eq+1:])
		if err != nil {
			return nil, fmt.Errorf("parse env %q: %w", str, err)
		}
		ret = append(ret, Var{Name: name, Value: value})
		rest = strings.TrimLeft(tail, " \t")
	}
	return ret, nil
}

// scanValue consumes one (possibly quoted) assignment value, returning the
// value and the unconsumed remainder of the string.
func scanValue(str string) (value, rest string, err error) {
	var ret strings.Builder
	for len(str) > 0 {
		switch c := str[0]; c {
		case ' ', '\t':
			return ret.String(), str, nil
		case '\'', '"':
			end := strings.IndexByte(str[1:], c)
			if end < 0 {
				return "", "", fmt.Errorf("unterminated %c-quoted string", c)
			}
			ret.WriteString(str[1 : 1+end])
			str = str[end+2:]
		default:
			ret.WriteByte(c)
			str = str[1:]
		}
	}
	return ret.String(), "", nil
}

func validVarName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_',
			c >= 'A' && c <= 'Z',
			c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// UnmarshalYAML implements yaml.Unmarshaler; an Env decodes from a manifest
// string.
func (e *Env) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	env, err := ParseEnv(str)
	if err != nil {
		return err
	}
	*e = env
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (e Env) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}

// Get returns the value of the last assignment to name; shell semantics, the
// last assignment wins.
func (e Env) Get(name string) (string, bool) {
	for i := len(e) - 1; i >= 0; i-- {
		if e[i].Name == name {
			return e[i].Value, true
		}
	}
	return "", false
}

// Expand substitutes $VAR and ${VAR} references in str, resolving first
// against the Env itself and then against base.  Unknown variables expand to
// the empty string, matching shell behavior.
func (e Env) Expand(str string, base map[string]string) string {
	return os.Expand(str, func(name string) string {
		if val, ok := e.Get(name); ok {
			return val
		}
		return base[name]
	})
}

// String renders the Env back to manifest form.  Values containing
// whitespace (or nothing at all) are double-quoted.
func (e Env) String() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		val := v.Value
		if val == "" || strings.ContainsAny(val, " \t") {
			val = `"` + val + `"`
		}
		parts = append(parts, v.Name+"="+val)
	}
	return strings.Join(parts, " ")
}
