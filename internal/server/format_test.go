package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"helpscout-mcp/internal/helpscout"
)

func TestFormatSearch(t *testing.T) {
	page := &helpscout.Page[helpscout.ArticleSummary]{
		Page: 1, Pages: 3, Count: 41,
		Items: []helpscout.ArticleSummary{
			{ID: "a1", Name: "Refund policy", URL: "https://docs.example.com/a1", Preview: "  How refunds work "},
			{ID: "a2"},
		},
	}

	out := formatSearch("refund", page)
	assert.Contains(t, out, `Found 41 article(s) matching "refund" (page 1 of 3)`)
	assert.Contains(t, out, "### Refund policy\n- **ID:** `a1`\n- **URL:** https://docs.example.com/a1\n- **Preview:** How refunds work")
	assert.Contains(t, out, "### Untitled\n- **ID:** `a2`\n- **URL:** N/A")
	assert.Contains(t, out, "page=2")
}

func TestFormatSearch_Empty(t *testing.T) {
	out := formatSearch("nothing", &helpscout.Page[helpscout.ArticleSummary]{})
	assert.Equal(t, `No published articles found matching "nothing".`, out)
}

func TestFormatArticle(t *testing.T) {
	out := formatArticle(&helpscout.Article{
		Name: "Billing FAQ", Status: "published", PublicURL: "https://docs.example.com/faq",
		UpdatedAt: "2024-01-02T03:04:05Z", ViewCount: 9, Text: "<p>Body</p>",
	})
	assert.Equal(t, "# Billing FAQ\n\n"+
		"**Status:** published\n"+
		"**Public URL:** https://docs.example.com/faq\n"+
		"**Last updated:** 2024-01-02T03:04:05Z\n"+
		"**Views:** 9\n\n"+
		"---\n\n"+
		"<p>Body</p>", out)
}

func TestFormatArticle_NoBody(t *testing.T) {
	out := formatArticle(&helpscout.Article{Name: "Empty"})
	assert.Contains(t, out, "**Status:** unknown")
	assert.Contains(t, out, "_No content available._")
}

func TestFormatCollections(t *testing.T) {
	out := formatCollections(&helpscout.Page[helpscout.Collection]{
		Page: 1, Pages: 1, Count: 2,
		Items: []helpscout.Collection{
			{ID: "c1", Name: "Billing", PublishedArticleCount: 3},
			{ID: "c2", Name: "Onboarding", Description: "Getting started", PublicURL: "https://docs.example.com/c2"},
		},
	})
	assert.Contains(t, out, "Found 2 collection(s) (page 1 of 1)")
	assert.Contains(t, out, "### Billing\n- **ID:** `c1`\n- **Published articles:** 3\n- **URL:** N/A")
	assert.Contains(t, out, "- **Description:** Getting started")
	assert.NotContains(t, out, "page=")
}

func TestFormatCollections_Empty(t *testing.T) {
	assert.Equal(t, "No collections found.", formatCollections(&helpscout.Page[helpscout.Collection]{}))
}

func TestFormatCollectionArticles(t *testing.T) {
	out := formatCollectionArticles("c1", &helpscout.Page[helpscout.ArticleSummary]{
		Page: 2, Pages: 3,
		Items: []helpscout.ArticleSummary{{ID: "b1", Name: "Invoices", PublicURL: "https://docs.example.com/b1"}},
	})
	assert.Contains(t, out, "Found 1 article(s) in collection `c1` (page 2 of 3)")
	assert.Contains(t, out, "- **Invoices**\n  ID: `b1`  |  URL: https://docs.example.com/b1")
	assert.Contains(t, out, "page=3")
}

func TestFormatCollectionArticles_Empty(t *testing.T) {
	out := formatCollectionArticles("c9", &helpscout.Page[helpscout.ArticleSummary]{})
	assert.Equal(t, "No published articles found in collection `c9`.", out)
}
