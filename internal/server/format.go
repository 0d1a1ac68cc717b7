package server

import (
	"fmt"
	"strings"

	"helpscout-mcp/internal/helpscout"
)

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func formatSearch(query string, page *helpscout.Page[helpscout.ArticleSummary]) string {
	if len(page.Items) == 0 {
		return fmt.Sprintf("No published articles found matching %q.", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d article(s) matching %q (page %d of %d):\n\n",
		countOr(page.Count, len(page.Items)), query, page.Page, max(page.Pages, 1))
	for _, a := range page.Items {
		fmt.Fprintf(&b, "### %s\n", orDefault(a.Name, "Untitled"))
		fmt.Fprintf(&b, "- **ID:** `%s`\n", a.ID)
		fmt.Fprintf(&b, "- **URL:** %s\n", orDefault(a.Link(), "N/A"))
		if preview := strings.TrimSpace(a.Preview); preview != "" {
			fmt.Fprintf(&b, "- **Preview:** %s\n", preview)
		}
		b.WriteString("\n")
	}
	if page.HasNext() {
		fmt.Fprintf(&b, "_Call search_articles again with page=%d for more results._\n", page.Page+1)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatArticle(a *helpscout.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orDefault(a.Name, "Untitled"))
	fmt.Fprintf(&b, "**Status:** %s\n", orDefault(a.Status, "unknown"))
	fmt.Fprintf(&b, "**Public URL:** %s\n", orDefault(a.PublicURL, "N/A"))
	fmt.Fprintf(&b, "**Last updated:** %s\n", orDefault(a.UpdatedAt, "N/A"))
	fmt.Fprintf(&b, "**Views:** %d\n\n", a.ViewCount)
	b.WriteString("---\n\n")
	b.WriteString(orDefault(a.Text, "_No content available._"))
	return b.String()
}

func formatCollections(page *helpscout.Page[helpscout.Collection]) string {
	if len(page.Items) == 0 {
		return "No collections found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d collection(s) (page %d of %d):\n\n",
		countOr(page.Count, len(page.Items)), page.Page, max(page.Pages, 1))
	for _, c := range page.Items {
		fmt.Fprintf(&b, "### %s\n", orDefault(c.Name, "Untitled"))
		fmt.Fprintf(&b, "- **ID:** `%s`\n", c.ID)
		fmt.Fprintf(&b, "- **Published articles:** %d\n", c.PublishedArticleCount)
		if desc := strings.TrimSpace(c.Description); desc != "" {
			fmt.Fprintf(&b, "- **Description:** %s\n", desc)
		}
		fmt.Fprintf(&b, "- **URL:** %s\n\n", orDefault(c.PublicURL, "N/A"))
	}
	if page.HasNext() {
		fmt.Fprintf(&b, "_Call list_collections again with page=%d for more results._\n", page.Page+1)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCollectionArticles(collectionID string, page *helpscout.Page[helpscout.ArticleSummary]) string {
	if len(page.Items) == 0 {
		return fmt.Sprintf("No published articles found in collection `%s`.", collectionID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d article(s) in collection `%s` (page %d of %d):\n\n",
		countOr(page.Count, len(page.Items)), collectionID, page.Page, max(page.Pages, 1))
	for _, a := range page.Items {
		fmt.Fprintf(&b, "- **%s**\n", orDefault(a.Name, "Untitled"))
		fmt.Fprintf(&b, "  ID: `%s`  |  URL: %s\n", a.ID, orDefault(a.Link(), "N/A"))
	}
	if page.HasNext() {
		fmt.Fprintf(&b, "\n_Call list_articles again with page=%d for more results._\n", page.Page+1)
	}
	return strings.TrimRight(b.String(), "\n")
}

func countOr(count, fallback int) int {
	if count > 0 {
		return count
	}
	return fallback
}
