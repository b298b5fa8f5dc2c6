package kindle

import (
	"sort"
	"strings"

	"github.com/pvidals/clipnotion/internal/entities"
)

// GroupIntoBooks groups clippings by book identity (title + author,
// case-insensitive), classifies single-word highlights as vocabulary
// lookups, orders each book's entries by the time they were added, and
// collapses entries with identical content to the first occurrence.
// Bookmarks carry no content and are dropped.
//
// Book order follows first appearance in the input, so the result is
// deterministic for identical input.
func GroupIntoBooks(clippings []Clipping) []entities.Book {
	bookMap := make(map[string]*entities.Book)
	bookOrder := []string{}

	for _, clipping := range clippings {
		if clipping.Kind == entities.KindBookmark {
			continue
		}

		key := bookKey(clipping.Title, clipping.Author)
		book, exists := bookMap[key]
		if !exists {
			book = &entities.Book{
				Title:      clipping.Title,
				Author:     clipping.Author,
				Highlights: []entities.Highlight{},
			}
			bookMap[key] = book
			bookOrder = append(bookOrder, key)
		}

		book.Highlights = append(book.Highlights, toHighlight(clipping))
	}

	var books []entities.Book
	for _, key := range bookOrder {
		book := bookMap[key]

		// Stable sort keeps input order for clippings added in the
		// same second
		sort.SliceStable(book.Highlights, func(i, j int) bool {
			return book.Highlights[i].AddedAt.Before(book.Highlights[j].AddedAt)
		})

		book.Highlights = dedupeByText(book.Highlights)
		if len(book.Highlights) > 0 {
			books = append(books, *book)
		}
	}

	return books
}

func toHighlight(clipping Clipping) entities.Highlight {
	kind := clipping.Kind
	if kind == entities.KindHighlight && isSingleWord(clipping.Text) {
		// A one-word highlight is a dictionary lookup, not a quote
		kind = entities.KindVocabulary
	}

	return entities.Highlight{
		Kind:        kind,
		Text:        clipping.Text,
		Page:        clipping.Page,
		PageEnd:     clipping.PageEnd,
		Location:    clipping.Location,
		LocationEnd: clipping.LocationEnd,
		AddedAt:     clipping.AddedAt,
	}
}

func bookKey(title, author string) string {
	return strings.ToLower(title) + "|" + strings.ToLower(author)
}

func isSingleWord(text string) bool {
	return len(strings.Fields(text)) == 1
}

// dedupeByText removes entries whose trimmed text already appeared earlier
// in the slice. Run after sorting, so the earliest clipping wins.
func dedupeByText(highlights []entities.Highlight) []entities.Highlight {
	seen := make(map[string]bool, len(highlights))
	deduped := make([]entities.Highlight, 0, len(highlights))

	for _, h := range highlights {
		key := strings.TrimSpace(h.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, h)
	}

	return deduped
}
