package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// validator checks raw tool arguments against a tool's declared schema.
type validator struct {
	def    ToolDefinition
	schema *gojsonschema.Schema
}

func newValidator(def ToolDefinition) (*validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.InputSchema()))
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", def.Name, err)
	}
	return &validator{def: def, schema: schema}, nil
}

// validate returns the decoded arguments with defaults applied, or the
// failure message to report. Missing arguments are reported before invalid
// ones, in declaration order.
func (v *validator) validate(raw json.RawMessage) (Args, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	raw = v.dropNullOptionals(raw)

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, "invalid arguments: " + err.Error()
	}
	if !result.Valid() {
		return nil, v.describe(result.Errors())
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, "invalid arguments: " + err.Error()
	}

	args := make(Args, len(v.def.Params))
	for _, p := range v.def.Params {
		val, ok := decoded[p.Name]
		if !ok {
			if p.Default != nil {
				args[p.Name] = p.Default
			}
			continue
		}
		converted, ok := convert(p.Type, val)
		if !ok {
			return nil, "invalid argument " + p.Name
		}
		args[p.Name] = converted
	}
	return args, ""
}

// dropNullOptionals removes optional arguments sent as null so they are
// treated as absent. Required arguments keep their null and fail validation.
func (v *validator) dropNullOptionals(raw json.RawMessage) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return raw
	}
	dropped := false
	for _, p := range v.def.Params {
		if val, ok := obj[p.Name]; ok && !p.Required && bytes.Equal(bytes.TrimSpace(val), []byte("null")) {
			delete(obj, p.Name)
			dropped = true
		}
	}
	if !dropped {
		return raw
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return raw
	}
	return out
}

func (v *validator) describe(errs []gojsonschema.ResultError) string {
	missing := map[string]bool{}
	invalid := map[string]bool{}
	for _, e := range errs {
		if e.Type() == "required" {
			if name, ok := e.Details()["property"].(string); ok {
				missing[name] = true
			}
			continue
		}
		invalid[e.Field()] = true
	}
	for _, p := range v.def.Params {
		if missing[p.Name] {
			return "missing argument " + p.Name
		}
	}
	for _, p := range v.def.Params {
		if invalid[p.Name] {
			return "invalid argument " + p.Name
		}
	}
	return "invalid arguments"
}

func convert(t ParamType, val json.RawMessage) (any, bool) {
	switch t {
	case ParamString:
		var s string
		if err := json.Unmarshal(val, &s); err != nil {
			return nil, false
		}
		return s, true
	case ParamInteger:
		var f float64
		if err := json.Unmarshal(val, &f); err != nil || f != float64(int(f)) {
			return nil, false
		}
		return int(f), true
	}
	return nil, false
}
