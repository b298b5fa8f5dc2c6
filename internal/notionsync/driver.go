// Package notionsync pushes parsed books into a Notion database. Each book
// maps to one database page found by title; only clippings the page does
// not already contain are appended, so re-running a sync is safe.
package notionsync

import (
	"context"
	"fmt"
	"strings"

	"github.com/pvidals/clipnotion/internal/entities"
	"github.com/pvidals/clipnotion/internal/notion"
)

const notePrefix = "Note: "

// API is the slice of the Notion client the driver depends on.
type API interface {
	QueryPages(ctx context.Context) ([]notion.Page, error)
	CreatePage(ctx context.Context, params notion.CreatePageParams) (*notion.Page, error)
	ListBlockChildren(ctx context.Context, blockID string) ([]notion.Block, error)
	AppendBlockChildren(ctx context.Context, blockID string, blocks []notion.Block) error
	IncrementHighlightCount(ctx context.Context, pageID string, delta int) (int, error)
}

// Result summarizes one sync run.
type Result struct {
	BooksProcessed int      `json:"books_processed"`
	PagesCreated   int      `json:"pages_created"`
	BlocksUploaded int      `json:"blocks_uploaded"`
	BlocksSkipped  int      `json:"blocks_skipped"`
	Errors         []string `json:"errors,omitempty"`
}

type Driver struct {
	api API
}

func NewDriver(api API) *Driver {
	return &Driver{api: api}
}

// Sync pushes every book to Notion. A failure on one book is recorded in
// the result and does not stop the remaining books; only listing the
// database itself is fatal.
func (d *Driver) Sync(ctx context.Context, books []entities.Book) (*Result, error) {
	pages, err := d.api.QueryPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list database pages: %w", err)
	}

	pagesByTitle := make(map[string]notion.Page, len(pages))
	for _, page := range pages {
		pagesByTitle[strings.ToLower(page.Title)] = page
	}

	result := &Result{}
	for _, book := range books {
		if err := d.syncBook(ctx, book, pagesByTitle, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("book %q: %v", book.Title, err))
		}
		result.BooksProcessed++
	}

	return result, nil
}

func (d *Driver) syncBook(ctx context.Context, book entities.Book, pagesByTitle map[string]notion.Page, result *Result) error {
	entries := uploadable(book.Highlights)
	if len(entries) == 0 {
		return nil
	}

	titleKey := strings.ToLower(book.Title)
	existing := map[string]bool{}

	page, found := pagesByTitle[titleKey]
	if found {
		blocks, err := d.api.ListBlockChildren(ctx, page.ID)
		if err != nil {
			return fmt.Errorf("failed to list page content: %w", err)
		}
		existing = existingTexts(blocks)
	} else {
		created, err := d.api.CreatePage(ctx, notion.CreatePageParams{
			Title:  book.Title,
			Author: book.Author,
			Date:   entries[0].AddedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to create page: %w", err)
		}
		page = *created
		pagesByTitle[titleKey] = page
		result.PagesCreated++
	}

	var blocks []notion.Block
	uploaded := 0
	for _, h := range entries {
		if existing[strings.TrimSpace(h.Text)] {
			result.BlocksSkipped++
			continue
		}
		blocks = append(blocks, entryBlocks(h)...)
		uploaded++
	}

	if uploaded == 0 {
		return nil
	}

	if err := d.api.AppendBlockChildren(ctx, page.ID, blocks); err != nil {
		return fmt.Errorf("failed to append highlights: %w", err)
	}
	result.BlocksUploaded += uploaded

	if _, err := d.api.IncrementHighlightCount(ctx, page.ID, uploaded); err != nil {
		return fmt.Errorf("failed to update highlight count: %w", err)
	}

	return nil
}

// uploadable filters the entries that become page content. Vocabulary
// lookups stay local and bookmarks carry no text.
func uploadable(highlights []entities.Highlight) []entities.Highlight {
	var entries []entities.Highlight
	for _, h := range highlights {
		switch h.Kind {
		case entities.KindHighlight, entities.KindNote:
			entries = append(entries, h)
		case entities.KindBookmark, entities.KindVocabulary:
		}
	}
	return entries
}

// entryBlocks renders one clipping as Notion blocks. A highlight becomes a
// quote with its source label, followed by an empty paragraph to space the
// quotes apart. A note becomes a plain paragraph.
func entryBlocks(h entities.Highlight) []notion.Block {
	if h.Kind == entities.KindNote {
		return []notion.Block{notion.NewParagraphBlock(notePrefix + h.Text)}
	}

	text := `"` + h.Text + `"`
	if label := h.SourceLabel(); label != "" {
		text += "\n\n" + label
	}
	return []notion.Block{
		notion.NewQuoteBlock(text),
		notion.NewParagraphBlock(""),
	}
}

// existingTexts collects the clipping texts already present on a page,
// undoing the rendering entryBlocks applied.
func existingTexts(blocks []notion.Block) map[string]bool {
	texts := make(map[string]bool)
	for _, b := range blocks {
		text := strings.TrimSpace(b.PlainText())
		if text == "" {
			continue
		}
		switch b.Type {
		case notion.BlockTypeQuote:
			texts[strings.TrimSpace(unquote(text))] = true
		case notion.BlockTypeParagraph:
			texts[strings.TrimSpace(strings.TrimPrefix(text, notePrefix))] = true
		}
	}
	return texts
}

// unquote strips the surrounding quote marks and anything after the
// closing one, such as the source label.
func unquote(text string) string {
	first := strings.Index(text, `"`)
	last := strings.LastIndex(text, `"`)
	if first == -1 || last <= first {
		return text
	}
	return text[first+1 : last]
}
