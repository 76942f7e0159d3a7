package rule

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Text is a config value written either as a single string or as a list of strings
type Text struct {
	Lines  []string
	IsList bool
}

// String builds a scalar Text.
func String(s string) Text {
	return Text{Lines: []string{s}}
}

// List builds a list Text.
func List(lines ...string) Text {
	return Text{Lines: lines, IsList: true}
}

// Ptr returns a pointer to t, for the optional fields of Rule.
func (t Text) Ptr() *Text {
	return &t
}

// Join returns the scalar value, or the list elements joined by sep.
func (t Text) Join(sep string) string {
	if !t.IsList {
		if len(t.Lines) == 0 {
			return ""
		}
		return t.Lines[0]
	}
	return strings.Join(t.Lines, sep)
}

func (t Text) MarshalJSON() ([]byte, error) {
	if t.IsList {
		lines := t.Lines
		if lines == nil {
			lines = []string{}
		}
		return json.Marshal(lines)
	}
	return json.Marshal(t.Join(""))
}

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var lines []string
		if err := json.Unmarshal(data, &lines); err != nil {
			return errors.Errorf("expected a string or a list of strings: %w", err)
		}
		*t = List(lines...)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Errorf("expected a string or a list of strings: %w", err)
	}
	*t = String(s)
	return nil
}

func (t Text) MarshalYAML() (interface{}, error) {
	if t.IsList {
		return t.Lines, nil
	}
	return t.Join(""), nil
}

func (t *Text) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return errors.Errorf("line %d: expected a string: %w", value.Line, err)
		}
		*t = String(s)
		return nil
	case yaml.SequenceNode:
		var lines []string
		if err := value.Decode(&lines); err != nil {
			return errors.Errorf("line %d: expected a list of strings: %w", value.Line, err)
		}
		*t = List(lines...)
		return nil
	default:
		return errors.Errorf("line %d: expected a string or a list of strings", value.Line)
	}
}

// TextFromCty converts an HCL attribute value. Strings become scalars, lists and
// tuples of strings become lists.
func TextFromCty(v cty.Value) (Text, error) {
	if v.IsNull() {
		return Text{}, errors.New("value is null")
	}
	if !v.IsKnown() {
		return Text{}, errors.New("value is not known")
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return String(v.AsString()), nil
	case ty.IsListType() || ty.IsTupleType():
		lines := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, el := it.Element()
			if el.IsNull() || !el.Type().Equals(cty.String) {
				return Text{}, errors.Errorf("expected a list of strings, found element of type %s", el.Type().FriendlyName())
			}
			lines = append(lines, el.AsString())
		}
		return List(lines...), nil
	default:
		return Text{}, errors.Errorf("expected a string or a list of strings, found %s", ty.FriendlyName())
	}
}
