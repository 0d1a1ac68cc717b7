package helpscout

// StatusPublished is the article status visible to end users.
const StatusPublished = "published"

// ArticleSummary is an article as it appears in search and listing results.
type ArticleSummary struct {
	ID              string `json:"id"`
	Number          int    `json:"number,omitempty"`
	CollectionID    string `json:"collectionId,omitempty"`
	Name            string `json:"name"`
	Status          string `json:"status,omitempty"`
	Visibility      string `json:"visibility,omitempty"`
	Preview         string `json:"preview,omitempty"`
	URL             string `json:"url,omitempty"`
	PublicURL       string `json:"publicUrl,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
	LastPublishedAt string `json:"lastPublishedAt,omitempty"`
}

// Link returns the best public URL for the article.
func (a ArticleSummary) Link() string {
	return firstNonEmpty(a.PublicURL, a.URL)
}

// Article is the full view of one article, including its body.
type Article struct {
	ID              string   `json:"id"`
	Number          int      `json:"number,omitempty"`
	CollectionID    string   `json:"collectionId,omitempty"`
	Slug            string   `json:"slug,omitempty"`
	Status          string   `json:"status"`
	Name            string   `json:"name"`
	Text            string   `json:"text"`
	Categories      []string `json:"categories,omitempty"`
	PublicURL       string   `json:"publicUrl,omitempty"`
	ViewCount       int      `json:"viewCount"`
	CreatedBy       int      `json:"createdBy,omitempty"`
	UpdatedBy       int      `json:"updatedBy,omitempty"`
	CreatedAt       string   `json:"createdAt,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
	LastPublishedAt string   `json:"lastPublishedAt,omitempty"`
}

// Collection is a top-level grouping of articles.
type Collection struct {
	ID                    string `json:"id"`
	Number                int    `json:"number,omitempty"`
	Slug                  string `json:"slug,omitempty"`
	Visibility            string `json:"visibility,omitempty"`
	Name                  string `json:"name"`
	Description           string `json:"description,omitempty"`
	PublicURL             string `json:"publicUrl,omitempty"`
	ArticleCount          int    `json:"articleCount,omitempty"`
	PublishedArticleCount int    `json:"publishedArticleCount"`
	UpdatedAt             string `json:"updatedAt,omitempty"`
}

// Page is the pagination envelope the Docs API wraps list results in.
type Page[T any] struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Count int `json:"count"`
	Items []T `json:"items"`
}

// HasNext reports whether a later page exists.
func (p *Page[T]) HasNext() bool {
	return p.Page < p.Pages
}

// SearchParams are the filters accepted by SearchArticles.
type SearchParams struct {
	Query        string
	CollectionID string
	Page         int
	PageSize     int
}

// ListParams are the pagination options accepted by ListArticles and ListCollections.
type ListParams struct {
	Page     int
	PageSize int
}

type articlesEnvelope struct {
	Articles Page[ArticleSummary] `json:"articles"`
}

type collectionsEnvelope struct {
	Collections Page[Collection] `json:"collections"`
}

type articleEnvelope struct {
	Article *Article `json:"article"`
}
