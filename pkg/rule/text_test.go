package rule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

func TestText_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Text
		wantError string
	}{
		{
			name:  "scalar",
			input: `"foo"`,
			want:  String("foo"),
		},
		{
			name:  "list",
			input: `["foo", "bar"]`,
			want:  List("foo", "bar"),
		},
		{
			name:  "empty_list",
			input: `[]`,
			want:  List(),
		},
		{
			name:      "number",
			input:     `12`,
			wantError: "expected a string or a list of strings",
		},
		{
			name:      "list_of_numbers",
			input:     `[1, 2]`,
			wantError: "expected a string or a list of strings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Text
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.IsList, got.IsList)
			assert.Equal(t, tt.want.Join("\n"), got.Join("\n"))
		})
	}
}

func TestText_UnmarshalYAML(t *testing.T) {
	type doc struct {
		Find Text `yaml:"find"`
	}

	tests := []struct {
		name      string
		input     string
		want      Text
		wantError string
	}{
		{
			name:  "scalar",
			input: "find: \" +$\"\n",
			want:  String(" +$"),
		},
		{
			name:  "list",
			input: "find:\n  - foo\n  - bar\n",
			want:  List("foo", "bar"),
		},
		{
			name:      "mapping",
			input:     "find:\n  a: b\n",
			wantError: "expected a string or a list of strings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got doc
			err := yaml.Unmarshal([]byte(tt.input), &got)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Find)
		})
	}
}

func TestText_MarshalRoundTrip(t *testing.T) {
	r := Rule{
		Find:    List("foo", "bar"),
		Replace: String("baz").Ptr(),
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"find":["foo","bar"],"replace":"baz"}`, string(data))

	var back Rule
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r.FindString(), back.FindString())
	assert.Equal(t, r.ReplaceString(), back.ReplaceString())
	assert.Nil(t, back.Flags)
}

func TestTextFromCty(t *testing.T) {
	tests := []struct {
		name      string
		value     cty.Value
		want      Text
		wantError string
	}{
		{
			name:  "string",
			value: cty.StringVal("foo"),
			want:  String("foo"),
		},
		{
			name:  "tuple",
			value: cty.TupleVal([]cty.Value{cty.StringVal("foo"), cty.StringVal("bar")}),
			want:  List("foo", "bar"),
		},
		{
			name:  "list",
			value: cty.ListVal([]cty.Value{cty.StringVal("g"), cty.StringVal("m")}),
			want:  List("g", "m"),
		},
		{
			name:      "number",
			value:     cty.NumberIntVal(3),
			wantError: "found number",
		},
		{
			name:      "tuple_with_bool",
			value:     cty.TupleVal([]cty.Value{cty.StringVal("foo"), cty.True}),
			wantError: "found element of type bool",
		},
		{
			name:      "null",
			value:     cty.NullVal(cty.String),
			wantError: "value is null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TextFromCty(tt.value)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRule_Defaults(t *testing.T) {
	r := Rule{Find: String("x")}

	assert.Equal(t, "", r.ReplaceString(), "absent replace deletes")
	assert.Equal(t, "gm", r.FlagsString(), "absent flags default to gm")
	assert.True(t, r.AppliesTo("anything"), "no languages applies everywhere")

	r.Flags = List("g", "i").Ptr()
	assert.Equal(t, "gi", r.FlagsString(), "flag lists concatenate")

	r.Flags = String("").Ptr()
	assert.Equal(t, "", r.FlagsString(), "explicit empty flags stay empty")

	r.Languages = []string{"python"}
	assert.True(t, r.AppliesTo("python"))
	assert.False(t, r.AppliesTo("javascript"))
}
