package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"helpscout-mcp/internal/helpscout"
	"helpscout-mcp/internal/metrics"
)

type tool struct {
	def       ToolDefinition
	validator *validator
	handle    handlerFunc
}

// Adapter exposes the knowledge base as MCP tools. It validates arguments
// before dispatch and turns every outcome into a ToolResult.
type Adapter struct {
	tools   map[string]*tool
	order   []string
	log     logr.Logger
	metrics *metrics.Metrics
}

// NewAdapter builds the tool table over kb. m may be nil.
func NewAdapter(kb KnowledgeBase, log logr.Logger, m *metrics.Metrics) (*Adapter, error) {
	a := &Adapter{
		tools:   make(map[string]*tool),
		log:     log,
		metrics: m,
	}
	for _, e := range toolEntries(kb) {
		if _, dup := a.tools[e.def.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", e.def.Name)
		}
		v, err := newValidator(e.def)
		if err != nil {
			return nil, err
		}
		a.tools[e.def.Name] = &tool{def: e.def, validator: v, handle: e.handle}
		a.order = append(a.order, e.def.Name)
	}
	return a, nil
}

// Definitions returns the tool definitions in registration order.
func (a *Adapter) Definitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(a.order))
	for _, name := range a.order {
		defs = append(defs, a.tools[name].def)
	}
	return defs
}

// Register adds every tool to s.
func (a *Adapter) Register(s *mcp.Server) {
	for _, name := range a.order {
		def := a.tools[name].def
		s.AddTool(&mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema(),
			Annotations: &mcp.ToolAnnotations{
				Title:          def.Title,
				ReadOnlyHint:   true,
				IdempotentHint: true,
			},
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return a.Invoke(ctx, name, req.Params.Arguments).CallToolResult(), nil
		})
	}
}

// Invoke validates raw arguments and runs the named tool. It never panics
// and never returns a partial result for a cancelled call.
func (a *Adapter) Invoke(ctx context.Context, name string, raw json.RawMessage) (res ToolResult) {
	start := time.Now()
	log := a.log.WithValues("tool", name)
	defer func() {
		if r := recover(); r != nil {
			log.Error(fmt.Errorf("panic: %v", r), "tool handler panicked")
			res = Failure("internal error while running "+name, 0)
		}
		a.metrics.RecordToolCall(name, res.IsError, time.Since(start))
		log.V(1).Info("tool call", "isError", res.IsError, "duration", time.Since(start))
	}()

	t, ok := a.tools[name]
	if !ok {
		return Failure("unknown tool "+name, 0)
	}

	args, msg := t.validator.validate(raw)
	if msg != "" {
		return Failure(msg, 0)
	}

	res, err := t.handle(ctx, args)
	if err != nil {
		res = failureFromError(err)
		log.Info("tool call failed", "error", res.Text, "status", res.StatusCode)
		return res
	}
	if ctx.Err() != nil {
		return Failure("request cancelled", 0)
	}
	return res
}

// failureFromError maps any handler error to a failed result.
func failureFromError(err error) ToolResult {
	var hsErr *helpscout.Error
	if !errors.As(err, &hsErr) {
		return Failure(err.Error(), 0)
	}
	switch hsErr.Kind {
	case helpscout.KindNotFound:
		return Failure("Not found: "+hsErr.Message, hsErr.StatusCode)
	case helpscout.KindTransportFailure:
		return Failure("Help Scout API unreachable: "+hsErr.Message, 0)
	case helpscout.KindDecodeFailure:
		return Failure("Help Scout API returned a malformed response", hsErr.StatusCode)
	default:
		return Failure(fmt.Sprintf("Help Scout API error (status %d): %s", hsErr.StatusCode, hsErr.Message), hsErr.StatusCode)
	}
}
