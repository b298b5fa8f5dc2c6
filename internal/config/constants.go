package config

// Default paths and API settings
const (
	// DefaultClippingsPath is where a mounted Kindle exposes its clippings
	DefaultClippingsPath = "./My Clippings.txt"

	// DefaultDatabasePath is the default path for the local archive database
	DefaultDatabasePath = "./clipnotion.db"

	// DefaultVocabularyPath is the default path for the vocabulary CSV
	DefaultVocabularyPath = "./vocab.csv"

	// DefaultExportCSVPath is the default path for the flat clippings export
	DefaultExportCSVPath = "./parsed_highlights.csv"

	// DefaultNotionVersion pins the Notion API revision the client speaks
	DefaultNotionVersion = "2022-06-28"
)
