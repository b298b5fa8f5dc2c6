// Package database provides the local SQLite archive.
//
// The archive keeps everything ever parsed from a clippings file, so books,
// highlights and vocabulary words survive the Kindle truncating or losing
// My Clippings.txt. It also records one SyncSession row per Notion sync run.
//
// The layer is deliberately flat:
//
//	database/
//	├── database.go    # Connection setup, migrations, book and highlight upserts
//	├── vocabulary.go  # Word archive, unique by lowercased text
//	└── sessions.go    # Sync session bookkeeping
//
// Usage:
//
//	db, err := database.NewDatabase("./clipnotion.db")
//	if err != nil { ... }
//	defer db.Close()
//
//	err = db.SaveBook(&book)
//
// Saving a book is idempotent: highlights are deduplicated by text, location
// and timestamp, so re-importing a grown clippings file only adds the new
// entries.
package database
