package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpscout-mcp/internal/helpscout"
	"helpscout-mcp/internal/metrics"
)

func newTestAdapter(t *testing.T, kb KnowledgeBase) *Adapter {
	t.Helper()
	a, err := NewAdapter(kb, logr.Discard(), nil)
	require.NoError(t, err)
	return a
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestDefinitions(t *testing.T) {
	a := newTestAdapter(t, newFakeKB())

	names := []string{}
	for _, d := range a.Definitions() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{ToolSearchArticles, ToolGetArticle, ToolListCollections, ToolListArticles}, names)
}

func TestInvoke_MissingRequiredMakesNoUpstreamCall(t *testing.T) {
	tests := []struct {
		tool string
		args any
		want string
	}{
		{ToolSearchArticles, map[string]any{"page": 1}, "missing argument query"},
		{ToolGetArticle, map[string]any{}, "missing argument article_id"},
		{ToolListArticles, nil, "missing argument collection_id"},
		{ToolListCollections, map[string]any{"page": "two"}, "invalid argument page"},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			kb := newFakeKB()
			a := newTestAdapter(t, kb)

			res := a.Invoke(context.Background(), tt.tool, raw(t, tt.args))
			assert.True(t, res.IsError)
			assert.Equal(t, tt.want, res.Text)
			assert.Zero(t, kb.Calls())
		})
	}
}

func TestInvoke_WrongType(t *testing.T) {
	kb := newFakeKB()
	a := newTestAdapter(t, kb)

	res := a.Invoke(context.Background(), ToolSearchArticles, raw(t, map[string]any{"query": 42}))
	assert.True(t, res.IsError)
	assert.Equal(t, "invalid argument query", res.Text)
	assert.Zero(t, kb.Calls())
}

func TestInvoke_UnknownTool(t *testing.T) {
	a := newTestAdapter(t, newFakeKB())

	res := a.Invoke(context.Background(), "delete_article", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text, "unknown tool")
}

func TestInvoke_SearchAppliesDefaults(t *testing.T) {
	kb := newFakeKB()
	a := newTestAdapter(t, kb)

	res := a.Invoke(context.Background(), ToolSearchArticles, raw(t, map[string]any{"query": "refund policy"}))
	require.False(t, res.IsError, res.Text)
	assert.Equal(t, helpscout.SearchParams{Query: "refund policy", Page: 1, PageSize: defaultSearchPageSize}, kb.lastSearch)
	assert.Contains(t, res.Text, `Found 2 article(s) matching "refund policy" (page 1 of 1)`)

	page, ok := res.Data.(*helpscout.Page[helpscout.ArticleSummary])
	require.True(t, ok)
	assert.Equal(t, "a1", page.Items[0].ID)
	assert.Equal(t, "a2", page.Items[1].ID)
}

func TestInvoke_NullOptionalTreatedAsAbsent(t *testing.T) {
	kb := newFakeKB()
	a := newTestAdapter(t, kb)

	res := a.Invoke(context.Background(), ToolSearchArticles,
		json.RawMessage(`{"query":"refund","collection_id":null,"page":null}`))
	require.False(t, res.IsError, res.Text)
	assert.Equal(t, 1, kb.Calls())
	assert.Equal(t, helpscout.SearchParams{Query: "refund", Page: 1, PageSize: defaultSearchPageSize}, kb.lastSearch)
}

func TestInvoke_GetArticleNotFound(t *testing.T) {
	a := newTestAdapter(t, newFakeKB())

	res := a.Invoke(context.Background(), ToolGetArticle, raw(t, map[string]any{"article_id": "nonexistent-id"}))
	assert.True(t, res.IsError)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, res.Text, "Not found")
}

func TestInvoke_ListArticlesUpstreamOrder(t *testing.T) {
	kb := newFakeKB()
	a := newTestAdapter(t, kb)

	res := a.Invoke(context.Background(), ToolListArticles, raw(t, map[string]any{"collection_id": "c1", "page_size": 10}))
	require.False(t, res.IsError, res.Text)
	assert.Equal(t, helpscout.ListParams{Page: 1, PageSize: 10}, kb.lastList)

	page := res.Data.(*helpscout.Page[helpscout.ArticleSummary])
	assert.Equal(t, kb.byColl["c1"].Items, page.Items)
	assert.Contains(t, res.Text, "page=2")
}

func TestInvoke_UpstreamErrorsBecomeFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   string
		status int
	}{
		{"transport", &helpscout.Error{Kind: helpscout.KindTransportFailure, Message: "request timed out"}, "Help Scout API unreachable: request timed out", 0},
		{"decode", &helpscout.Error{Kind: helpscout.KindDecodeFailure, StatusCode: 200, Message: "malformed JSON response"}, "Help Scout API returned a malformed response", 200},
		{"upstream", &helpscout.Error{Kind: helpscout.KindUpstreamFailure, StatusCode: 503, Message: "Service Unavailable"}, "Help Scout API error (status 503): Service Unavailable", 503},
		{"other", errors.New("boom"), "boom", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := newFakeKB()
			kb.err = tt.err
			a := newTestAdapter(t, kb)

			res := a.Invoke(context.Background(), ToolListCollections, nil)
			assert.True(t, res.IsError)
			assert.Equal(t, tt.want, res.Text)
			assert.Equal(t, tt.status, res.StatusCode)
		})
	}
}

type panickyKB struct{ fakeKB }

func (p *panickyKB) ListCollections(context.Context, helpscout.ListParams) (*helpscout.Page[helpscout.Collection], error) {
	panic("unexpected")
}

func TestInvoke_RecoversFromPanic(t *testing.T) {
	a := newTestAdapter(t, &panickyKB{})

	res := a.Invoke(context.Background(), ToolListCollections, nil)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text, "internal error")
}

func TestInvoke_CancelledCallHasNoPartialResult(t *testing.T) {
	a := newTestAdapter(t, newFakeKB())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := a.Invoke(ctx, ToolListCollections, nil)
	assert.True(t, res.IsError)
	assert.Nil(t, res.Data)
}

func TestInvoke_RecordsMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	a, err := NewAdapter(newFakeKB(), logr.Discard(), m)
	require.NoError(t, err)

	a.Invoke(context.Background(), ToolListCollections, nil)
	a.Invoke(context.Background(), ToolGetArticle, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCallsTotal.WithLabelValues(ToolListCollections, metrics.StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCallsTotal.WithLabelValues(ToolGetArticle, metrics.StatusError)))
}

func TestToolResult_CallToolResult(t *testing.T) {
	ok := Success("hello", map[string]any{"k": "v"}).CallToolResult()
	assert.False(t, ok.IsError)
	assert.Equal(t, map[string]any{"k": "v"}, ok.StructuredContent)

	fail := Failure("nope", 404).CallToolResult()
	assert.True(t, fail.IsError)
	assert.Nil(t, fail.StructuredContent)
	require.Len(t, fail.Content, 1)
}
