package vocabulary

import (
	"fmt"

	"github.com/pvidals/clipnotion/internal/entities"
)

// Tracker extracts vocabulary lookups from aggregated books and diffs them
// against the persisted store.
type Tracker struct {
	store *Store
}

func NewTracker(store *Store) *Tracker {
	return &Tracker{store: store}
}

// Collect returns the words in books that are not yet in the store, in
// reading order. Known words and repeats within the run are skipped
// silently; the store is not modified.
func (t *Tracker) Collect(books []entities.Book) []entities.Word {
	var words []entities.Word
	seen := make(map[string]bool)

	for _, book := range books {
		for _, h := range book.Highlights {
			if h.Kind != entities.KindVocabulary {
				continue
			}

			normalized := Normalize(h.Text)
			if normalized == "" || seen[normalized] || t.store.Contains(normalized) {
				continue
			}
			seen[normalized] = true

			words = append(words, entities.Word{
				Word:       normalized,
				SourceBook: bookLabel(book),
				SeenAt:     h.AddedAt,
			})
		}
	}

	return words
}

// Track collects the new words and appends them to the store in one step.
func (t *Tracker) Track(books []entities.Book) ([]entities.Word, error) {
	words := t.Collect(books)
	if len(words) == 0 {
		return nil, nil
	}
	if err := t.store.Append(words); err != nil {
		return nil, err
	}
	return words, nil
}

func bookLabel(book entities.Book) string {
	if book.Author == "" {
		return book.Title
	}
	return fmt.Sprintf("%s (%s)", book.Title, book.Author)
}
