package server

import (
	"context"
	"sync"

	"helpscout-mcp/internal/helpscout"
)

// fakeKB is an in-memory KnowledgeBase that counts calls.
type fakeKB struct {
	mu    sync.Mutex
	calls int

	search      *helpscout.Page[helpscout.ArticleSummary]
	articles    map[string]*helpscout.Article
	collections *helpscout.Page[helpscout.Collection]
	byColl      map[string]*helpscout.Page[helpscout.ArticleSummary]
	err         error

	lastSearch helpscout.SearchParams
	lastList   helpscout.ListParams
}

func (f *fakeKB) record() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func (f *fakeKB) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeKB) SearchArticles(_ context.Context, p helpscout.SearchParams) (*helpscout.Page[helpscout.ArticleSummary], error) {
	f.record()
	f.lastSearch = p
	if f.err != nil {
		return nil, f.err
	}
	page := *f.search
	return &page, nil
}

func (f *fakeKB) GetArticle(_ context.Context, id string) (*helpscout.Article, error) {
	f.record()
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.articles[id]
	if !ok {
		return nil, &helpscout.Error{Kind: helpscout.KindNotFound, StatusCode: 404, Message: "Not Found"}
	}
	return a, nil
}

func (f *fakeKB) ListCollections(_ context.Context, p helpscout.ListParams) (*helpscout.Page[helpscout.Collection], error) {
	f.record()
	f.lastList = p
	if f.err != nil {
		return nil, f.err
	}
	page := *f.collections
	return &page, nil
}

func (f *fakeKB) ListArticles(_ context.Context, collectionID string, p helpscout.ListParams) (*helpscout.Page[helpscout.ArticleSummary], error) {
	f.record()
	f.lastList = p
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.byColl[collectionID]
	if !ok {
		return nil, &helpscout.Error{Kind: helpscout.KindNotFound, StatusCode: 404, Message: "Not Found"}
	}
	cp := *page
	return &cp, nil
}

func newFakeKB() *fakeKB {
	return &fakeKB{
		search: &helpscout.Page[helpscout.ArticleSummary]{
			Page: 1, Pages: 1, Count: 2,
			Items: []helpscout.ArticleSummary{
				{ID: "a1", Name: "Refund policy", Status: "published", URL: "https://docs.example.com/a1", Preview: "How refunds work"},
				{ID: "a2", Name: "Requesting a refund", Status: "published", URL: "https://docs.example.com/a2"},
			},
		},
		articles: map[string]*helpscout.Article{
			"a1": {ID: "a1", Name: "Refund policy", Status: "published", Text: "<p>Refunds within 30 days.</p>", ViewCount: 7, PublicURL: "https://docs.example.com/a1"},
		},
		collections: &helpscout.Page[helpscout.Collection]{
			Page: 1, Pages: 1, Count: 2,
			Items: []helpscout.Collection{
				{ID: "c1", Name: "Billing", PublishedArticleCount: 3},
				{ID: "c2", Name: "Onboarding", PublishedArticleCount: 5, Description: "Getting started"},
			},
		},
		byColl: map[string]*helpscout.Page[helpscout.ArticleSummary]{
			"c1": {
				Page: 1, Pages: 2, Count: 3,
				Items: []helpscout.ArticleSummary{
					{ID: "b2", Name: "Invoices", PublicURL: "https://docs.example.com/b2"},
					{ID: "b1", Name: "Payment methods"},
				},
			},
		},
	}
}
