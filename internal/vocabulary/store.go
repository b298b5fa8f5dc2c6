// Package vocabulary tracks dictionary lookups encountered while reading.
// Words live in a flat CSV file that only ever grows.
package vocabulary

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/natefinch/atomic"

	"github.com/pvidals/clipnotion/internal/entities"
)

var csvHeader = []string{"word", "source_book", "date_seen"}

// Store is the persisted vocabulary list. Words are unique by normalized
// text; Append rewrites the whole file atomically so a crash never leaves
// a truncated list behind.
type Store struct {
	path  string
	words []entities.Word
	index map[string]bool
}

func NewStore(path string) *Store {
	return &Store{
		path:  path,
		index: make(map[string]bool),
	}
}

// Load reads the existing word list. A missing file means an empty store.
func (s *Store) Load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open vocabulary file: %w", err)
	}
	defer f.Close()

	words, err := parseCSV(f)
	if err != nil {
		return fmt.Errorf("parse vocabulary file %s: %w", s.path, err)
	}

	s.words = words
	for _, w := range words {
		s.index[Normalize(w.Word)] = true
	}
	return nil
}

// Contains reports whether the word is already in the store, ignoring case
// and surrounding punctuation.
func (s *Store) Contains(word string) bool {
	return s.index[Normalize(word)]
}

// Count returns the number of persisted words.
func (s *Store) Count() int {
	return len(s.words)
}

// Words returns a copy of the persisted list in file order.
func (s *Store) Words() []entities.Word {
	out := make([]entities.Word, len(s.words))
	copy(out, s.words)
	return out
}

// Append adds new words to the store and rewrites the file atomically.
// Existing rows are preserved untouched; words already present are skipped.
func (s *Store) Append(words []entities.Word) error {
	var fresh []entities.Word
	for _, w := range words {
		normalized := Normalize(w.Word)
		if normalized == "" || s.index[normalized] {
			continue
		}
		w.Word = normalized
		fresh = append(fresh, w)
		s.index[normalized] = true
	}
	if len(fresh) == 0 {
		return nil
	}

	s.words = append(s.words, fresh...)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write vocabulary header: %w", err)
	}
	for _, w := range s.words {
		record := []string{w.Word, w.SourceBook, w.SeenAt.Format(time.RFC3339)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write vocabulary row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("write vocabulary rows: %w", err)
	}

	if err := atomic.WriteFile(s.path, &buf); err != nil {
		return fmt.Errorf("write vocabulary file %s: %w", s.path, err)
	}
	return nil
}

func parseCSV(r io.Reader) ([]entities.Word, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := headerIndex["word"]; !ok {
		return nil, fmt.Errorf("missing required header: word")
	}

	var words []entities.Word
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		word := getCSVValue(record, headerIndex, "word")
		if word == "" {
			continue
		}

		entry := entities.Word{
			Word:       word,
			SourceBook: getCSVValue(record, headerIndex, "source_book"),
		}
		if raw := getCSVValue(record, headerIndex, "date_seen"); raw != "" {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				entry.SeenAt = t
			}
		}
		words = append(words, entry)
	}

	return words, nil
}

func getCSVValue(record []string, headerIndex map[string]int, header string) string {
	if idx, ok := headerIndex[header]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

// Normalize lowercases a looked-up word and strips surrounding punctuation
// and whitespace. Interior punctuation (hyphens, apostrophes) is kept.
func Normalize(word string) string {
	trimmed := strings.TrimFunc(word, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	return strings.ToLower(trimmed)
}
