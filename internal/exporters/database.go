package exporters

import (
	"log"

	"github.com/pvidals/clipnotion/internal/database"
	"github.com/pvidals/clipnotion/internal/entities"
)

// DatabaseExporter archives books and their clippings into the local
// SQLite database.
type DatabaseExporter struct {
	db *database.Database
}

func NewDatabaseExporter(db *database.Database) *DatabaseExporter {
	return &DatabaseExporter{db: db}
}

func (exporter *DatabaseExporter) Export(books []entities.Book) (ExportResult, error) {
	result := ExportResult{}

	for i := range books {
		book := &books[i]
		err := exporter.db.SaveBook(book)
		if err != nil {
			log.Printf("Failed to save book '%s' by %s to database: %v", book.Title, book.Author, err)
			result.BooksFailed++
			result.HighlightsFailed += len(book.Highlights)
			continue
		}
		result.BooksProcessed++
		result.HighlightsProcessed += len(book.Highlights)
	}

	return result, nil
}

// Compile-time interface implementation check
var _ BookExporter = (*DatabaseExporter)(nil)
