package exporters

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/natefinch/atomic"

	"github.com/pvidals/clipnotion/internal/entities"
)

var clippingsHeader = []string{
	"title", "author", "kind",
	"page", "page_end", "location", "location_end",
	"added_at", "text",
}

// CSVExporter writes every clipping of every book into one flat CSV file.
type CSVExporter struct {
	Path string
}

func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{Path: path}
}

func (e *CSVExporter) Export(books []entities.Book) (ExportResult, error) {
	result := ExportResult{}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(clippingsHeader); err != nil {
		return result, err
	}

	for _, book := range books {
		for _, h := range book.Highlights {
			record := []string{
				book.Title,
				book.Author,
				string(h.Kind),
				formatCount(h.Page),
				formatCount(h.PageEnd),
				formatCount(h.Location),
				formatCount(h.LocationEnd),
				h.AddedAt.Format(time.RFC3339),
				h.Text,
			}
			if err := w.Write(record); err != nil {
				return result, err
			}
			result.HighlightsProcessed++
		}
		result.BooksProcessed++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return result, err
	}

	if err := atomic.WriteFile(e.Path, &buf); err != nil {
		return result, fmt.Errorf("failed to write export file: %w", err)
	}
	return result, nil
}

// WriteClippingsCSV exports the books to a flat clippings CSV at path.
func WriteClippingsCSV(path string, books []entities.Book) (ExportResult, error) {
	return NewCSVExporter(path).Export(books)
}

// formatCount renders a count column, leaving unknown values blank.
func formatCount(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
