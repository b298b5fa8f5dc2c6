package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		Notion
		Kindle
		Vocabulary
		Database
		Audit
		Export
	}

	Notion struct {
		Token      string
		DatabaseID string
		Version    string // Notion-Version header sent with every request
	}
	Kindle struct {
		ClippingsPath string
		TitlesPath    string // optional JSONC file with title fixups
	}
	Vocabulary struct {
		Path string
	}
	Database struct {
		Path string
	}
	Audit struct {
		Dir string // empty disables audit reports
	}
	Export struct {
		CSVPath string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("notion_version", DefaultNotionVersion)
	v.SetDefault("clippings_path", DefaultClippingsPath)
	v.SetDefault("titles_path", "")
	v.SetDefault("vocabulary_path", DefaultVocabularyPath)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_dir", "")
	v.SetDefault("export_csv_path", DefaultExportCSVPath)

	return &Config{
		Notion: Notion{
			Token:      v.GetString("NOTION_TOKEN"),
			DatabaseID: v.GetString("NOTION_DATABASE_ID"),
			Version:    v.GetString("NOTION_VERSION"),
		},
		Kindle: Kindle{
			ClippingsPath: v.GetString("CLIPPINGS_PATH"),
			TitlesPath:    v.GetString("TITLES_PATH"),
		},
		Vocabulary: Vocabulary{
			Path: v.GetString("VOCABULARY_PATH"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Audit: Audit{
			Dir: v.GetString("AUDIT_DIR"),
		},
		Export: Export{
			CSVPath: v.GetString("EXPORT_CSV_PATH"),
		},
	}
}
