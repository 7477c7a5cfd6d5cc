package travis

import (
	"fmt"
	"strconv"
)

// CommandList is a phase value (`install`, `script`, ...).  YAML gives it
// either as a single string or as a sequence of strings; it normalizes to a
// sequence.
type CommandList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *CommandList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var one string
	if err := unmarshal(&one); err == nil {
		*l = CommandList{one}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*l = CommandList(many)
	return nil
}

// Version is one runtime version from the `python` list.  YAML authors write
// these either quoted ("3.6") or as bare numbers (3.6); the bare form is a
// well-known footgun (3.10 parses as the float 3.1), so Version remembers
// whether it arrived as a number.
type Version struct {
	Value   string
	Numeric bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Version) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case string:
		*v = Version{Value: val}
	case float64:
		*v = Version{Value: strconv.FormatFloat(val, 'f', -1, 64), Numeric: true}
	case int:
		*v = Version{Value: strconv.Itoa(val), Numeric: true}
	default:
		return fmt.Errorf("invalid version value: %v (%T)", raw, raw)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler; versions always re-encode quoted.
func (v Version) MarshalYAML() (interface{}, error) {
	return v.Value, nil
}

// String implements fmt.Stringer.
func (v Version) String() string {
	return v.Value
}

// VersionList is the `python` key.  A single scalar is accepted as a
// one-element list.
type VersionList []Version

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *VersionList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var many []Version
	if err := unmarshal(&many); err == nil {
		*l = VersionList(many)
		return nil
	}
	var one Version
	if err := unmarshal(&one); err != nil {
		return err
	}
	*l = VersionList{one}
	return nil
}
