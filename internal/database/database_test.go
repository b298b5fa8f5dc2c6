package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvidals/clipnotion/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleBook() *entities.Book {
	return &entities.Book{
		Title:  "Test Book",
		Author: "Test Author",
		Highlights: []entities.Highlight{
			{
				Kind:    entities.KindHighlight,
				Text:    "This is a test highlight",
				Page:    42,
				AddedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			},
			{
				Kind:    entities.KindNote,
				Text:    "A note about it",
				AddedAt: time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestDatabase(t *testing.T) {
	db := setupTestDB(t)

	t.Run("SaveBook creates new book", func(t *testing.T) {
		book := sampleBook()

		err := db.SaveBook(book)
		assert.NoError(t, err)
		assert.NotZero(t, book.ID)
	})

	t.Run("GetBookByTitleAndAuthor retrieves saved book", func(t *testing.T) {
		book, err := db.GetBookByTitleAndAuthor("Test Book", "Test Author")
		assert.NoError(t, err)
		assert.Equal(t, "Test Book", book.Title)
		assert.Equal(t, "Test Author", book.Author)
		require.Len(t, book.Highlights, 2)
		assert.Equal(t, "This is a test highlight", book.Highlights[0].Text)
		assert.Equal(t, 42, book.Highlights[0].Page)
	})

	t.Run("SaveBook skips already archived highlights", func(t *testing.T) {
		err := db.SaveBook(sampleBook())
		assert.NoError(t, err)

		book, err := db.GetBookByTitleAndAuthor("Test Book", "Test Author")
		require.NoError(t, err)
		assert.Len(t, book.Highlights, 2)
	})

	t.Run("SaveBook appends new highlights to existing book", func(t *testing.T) {
		book := sampleBook()
		book.Highlights = append(book.Highlights, entities.Highlight{
			Kind:    entities.KindHighlight,
			Text:    "A later highlight",
			AddedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
		})

		err := db.SaveBook(book)
		assert.NoError(t, err)

		updated, err := db.GetBookByTitleAndAuthor("Test Book", "Test Author")
		require.NoError(t, err)
		assert.Len(t, updated.Highlights, 3)
		assert.Equal(t, "A later highlight", updated.Highlights[2].Text)
	})

	t.Run("GetAllBooks returns all saved books", func(t *testing.T) {
		err := db.SaveBook(&entities.Book{
			Title:  "Another Book",
			Author: "Another Author",
			Highlights: []entities.Highlight{
				{Kind: entities.KindHighlight, Text: "Another highlight", AddedAt: time.Now()},
			},
		})
		require.NoError(t, err)

		books, err := db.GetAllBooks()
		assert.NoError(t, err)
		require.Len(t, books, 2)
		// Ordered by title
		assert.Equal(t, "Another Book", books[0].Title)
		assert.Equal(t, "Test Book", books[1].Title)
	})

	t.Run("GetStats counts archived records", func(t *testing.T) {
		_, err := db.SaveWord(&entities.Word{Word: "serenity", SeenAt: time.Now()})
		require.NoError(t, err)

		books, highlights, words, err := db.GetStats()
		assert.NoError(t, err)
		assert.Equal(t, int64(2), books)
		assert.Equal(t, int64(4), highlights)
		assert.Equal(t, int64(1), words)
	})
}

func TestSyncSessions(t *testing.T) {
	db := setupTestDB(t)

	session, err := db.CreateSyncSession()
	require.NoError(t, err)
	assert.NotZero(t, session.ID)
	assert.Equal(t, entities.SyncStatusRunning, session.Status)
	assert.False(t, session.StartedAt.IsZero())

	completed := time.Now()
	session.Status = entities.SyncStatusCompleted
	session.BooksProcessed = 3
	session.BlocksUploaded = 12
	session.CompletedAt = &completed
	require.NoError(t, db.UpdateSyncSession(session))

	// An older run, to check ordering and the limit
	older, err := db.CreateSyncSession()
	require.NoError(t, err)
	older.StartedAt = time.Now().Add(-time.Hour)
	require.NoError(t, db.UpdateSyncSession(older))

	sessions, err := db.GetRecentSyncSessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, session.ID, sessions[0].ID)
	assert.Equal(t, entities.SyncStatusCompleted, sessions[0].Status)
	assert.Equal(t, 12, sessions[0].BlocksUploaded)

	limited, err := db.GetRecentSyncSessions(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
