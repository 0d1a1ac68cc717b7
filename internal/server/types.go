package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ParamType is the JSON schema type of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
)

// Param declares one tool argument.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	// Default is applied when an optional argument is absent.
	Default any
	// Minimum bounds integer arguments when non-zero.
	Minimum int
}

// ToolDefinition describes an MCP tool and the arguments its handler consumes.
type ToolDefinition struct {
	Name        string
	Title       string
	Description string
	Params      []Param
}

// InputSchema renders the parameters as a JSON schema object.
func (d ToolDefinition) InputSchema() map[string]any {
	props := make(map[string]any, len(d.Params))
	var required []string
	for _, p := range d.Params {
		prop := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		if p.Minimum != 0 {
			prop["minimum"] = p.Minimum
		}
		if p.Required && p.Type == ParamString {
			prop["minLength"] = 1
		}
		if p.Required {
			required = append(required, p.Name)
		}
		props[p.Name] = prop
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Args holds validated arguments with defaults applied.
type Args map[string]any

// String returns a string argument, or "" if absent.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Int returns an integer argument, or 0 if absent.
func (a Args) Int(name string) int {
	n, _ := a[name].(int)
	return n
}

// ToolResult is the outcome of one tool invocation. A failure carries the
// upstream HTTP status when one was received.
type ToolResult struct {
	Text       string
	Data       any
	IsError    bool
	StatusCode int
}

// Success builds a successful result.
func Success(text string, data any) ToolResult {
	return ToolResult{Text: text, Data: data}
}

// Failure builds a failed result.
func Failure(message string, status int) ToolResult {
	return ToolResult{Text: message, IsError: true, StatusCode: status}
}

// CallToolResult converts the result into the protocol envelope.
func (r ToolResult) CallToolResult() *mcp.CallToolResult {
	res := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: r.Text}},
		IsError: r.IsError,
	}
	if !r.IsError && r.Data != nil {
		res.StructuredContent = r.Data
	}
	return res
}
