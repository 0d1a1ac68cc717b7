package server

import (
	"context"

	"helpscout-mcp/internal/helpscout"
)

// Tool names exposed to MCP clients.
const (
	ToolSearchArticles  = "search_articles"
	ToolGetArticle      = "get_article"
	ToolListCollections = "list_collections"
	ToolListArticles    = "list_articles"
)

const (
	defaultSearchPageSize = 20
	defaultListPageSize   = 50
)

// KnowledgeBase is the upstream surface the tools read from.
// *helpscout.Client implements it.
type KnowledgeBase interface {
	SearchArticles(ctx context.Context, p helpscout.SearchParams) (*helpscout.Page[helpscout.ArticleSummary], error)
	GetArticle(ctx context.Context, id string) (*helpscout.Article, error)
	ListCollections(ctx context.Context, p helpscout.ListParams) (*helpscout.Page[helpscout.Collection], error)
	ListArticles(ctx context.Context, collectionID string, p helpscout.ListParams) (*helpscout.Page[helpscout.ArticleSummary], error)
}

type handlerFunc func(ctx context.Context, args Args) (ToolResult, error)

type toolEntry struct {
	def    ToolDefinition
	handle handlerFunc
}

// toolEntries returns the fixed tool table. Every handler reads only the
// parameters its definition declares.
func toolEntries(kb KnowledgeBase) []toolEntry {
	return []toolEntry{
		{
			def: ToolDefinition{
				Name:        ToolSearchArticles,
				Title:       "Search Help Articles",
				Description: "Search published help articles by keyword or phrase. Returns matching articles with ID, title, preview, and URL. Use get_article to retrieve the full content of any result.",
				Params: []Param{
					{Name: "query", Type: ParamString, Required: true, Description: "The search term."},
					{Name: "collection_id", Type: ParamString, Description: "Restrict the search to one collection."},
					{Name: "page", Type: ParamInteger, Default: 1, Minimum: 1, Description: "Page number for paginated results."},
					{Name: "page_size", Type: ParamInteger, Default: defaultSearchPageSize, Minimum: 1, Description: "Results per page, at most 100."},
				},
			},
			handle: func(ctx context.Context, args Args) (ToolResult, error) {
				query := args.String("query")
				page, err := kb.SearchArticles(ctx, helpscout.SearchParams{
					Query:        query,
					CollectionID: args.String("collection_id"),
					Page:         args.Int("page"),
					PageSize:     args.Int("page_size"),
				})
				if err != nil {
					return ToolResult{}, err
				}
				fillPage(page, args.Int("page"))
				return Success(formatSearch(query, page), page), nil
			},
		},
		{
			def: ToolDefinition{
				Name:        ToolGetArticle,
				Title:       "Get Help Article",
				Description: "Retrieve the full content of a specific help article: title, metadata, and body text.",
				Params: []Param{
					{Name: "article_id", Type: ParamString, Required: true, Description: "The article ID, from search_articles or list_articles."},
				},
			},
			handle: func(ctx context.Context, args Args) (ToolResult, error) {
				article, err := kb.GetArticle(ctx, args.String("article_id"))
				if err != nil {
					return ToolResult{}, err
				}
				return Success(formatArticle(article), article), nil
			},
		},
		{
			def: ToolDefinition{
				Name:        ToolListCollections,
				Title:       "List Collections",
				Description: "List the public documentation collections (top-level sections of the knowledge base) with name, ID, description, and published article count. Use list_articles to browse a collection.",
				Params: []Param{
					{Name: "page", Type: ParamInteger, Default: 1, Minimum: 1, Description: "Page number."},
				},
			},
			handle: func(ctx context.Context, args Args) (ToolResult, error) {
				page, err := kb.ListCollections(ctx, helpscout.ListParams{Page: args.Int("page")})
				if err != nil {
					return ToolResult{}, err
				}
				fillPage(page, args.Int("page"))
				return Success(formatCollections(page), page), nil
			},
		},
		{
			def: ToolDefinition{
				Name:        ToolListArticles,
				Title:       "List Collection Articles",
				Description: "List the published articles within a collection, with names, IDs, and URLs. Use get_article to read full content.",
				Params: []Param{
					{Name: "collection_id", Type: ParamString, Required: true, Description: "The collection ID, from list_collections."},
					{Name: "page", Type: ParamInteger, Default: 1, Minimum: 1, Description: "Page number."},
					{Name: "page_size", Type: ParamInteger, Default: defaultListPageSize, Minimum: 1, Description: "Results per page, at most 100."},
				},
			},
			handle: func(ctx context.Context, args Args) (ToolResult, error) {
				collectionID := args.String("collection_id")
				page, err := kb.ListArticles(ctx, collectionID, helpscout.ListParams{
					Page:     args.Int("page"),
					PageSize: args.Int("page_size"),
				})
				if err != nil {
					return ToolResult{}, err
				}
				fillPage(page, args.Int("page"))
				return Success(formatCollectionArticles(collectionID, page), page), nil
			},
		},
	}
}

// fillPage sets paging fields the API left out.
func fillPage[T any](p *helpscout.Page[T], requested int) {
	if p.Page == 0 {
		p.Page = requested
	}
	if p.Pages == 0 {
		p.Pages = p.Page
	}
	if p.Items == nil {
		p.Items = []T{}
	}
}
