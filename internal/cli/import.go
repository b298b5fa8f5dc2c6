package cli

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pvidals/clipnotion/internal/config"
	"github.com/pvidals/clipnotion/internal/database"
	"github.com/pvidals/clipnotion/internal/entities"
	"github.com/pvidals/clipnotion/internal/exporters"
	"github.com/pvidals/clipnotion/internal/vocabulary"
)

// ImportCommand archives parsed clippings into the local SQLite database.
type ImportCommand struct {
	cfg          *config.Config
	FilePath     string
	TitlesPath   string
	DatabasePath string
	DryRun       bool
	Verbose      bool
}

func NewImportCommand(cfg *config.Config) *ImportCommand {
	return &ImportCommand{cfg: cfg}
}

// ParseFlags parses command-line flags for the import command
func (c *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&c.FilePath, "file", c.cfg.Kindle.ClippingsPath, "Path to the 'My Clippings.txt' file")
	fs.StringVar(&c.TitlesPath, "titles", c.cfg.Kindle.TitlesPath, "Path to a JSON title rewrite table (optional)")
	fs.StringVar(&c.DatabasePath, "db", c.cfg.Database.Path, "Path to the local archive database")
	fs.BoolVar(&c.DryRun, "dry-run", false, "Parse and show results without saving to database")
	fs.BoolVar(&c.Verbose, "verbose", false, "Show detailed progress")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: import [options]\n\n")
		fmt.Fprintf(os.Stderr, "Import Kindle clippings into the local archive database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file \"My Clippings.txt\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -file clippings.txt -db ./archive.db -verbose\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the import command
func (c *ImportCommand) Run() error {
	fmt.Println("Clippings Import")
	fmt.Println("================")
	fmt.Println()

	if c.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	fmt.Printf("Parsing clippings from: %s\n", c.FilePath)

	books, failures, err := parseClippings(c.FilePath, c.TitlesPath)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d clippings in %d books\n", countClippings(books), len(books))

	if c.Verbose {
		fmt.Println("\n=== Books ===")
		for i, book := range books {
			author := book.Author
			if author == "" {
				author = "(no author)"
			}
			fmt.Printf("%d. %s by %s (%d clippings)\n", i+1, book.Title, author, len(book.Highlights))
		}
	}

	printParseFailures(failures)

	if c.DryRun {
		fmt.Println("\nDry run complete. Run without -dry-run to save.")
		return nil
	}

	dbPath, err := filepath.Abs(c.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to resolve database path: %w", err)
	}

	fmt.Printf("\nSaving to database: %s\n", dbPath)

	db, err := database.NewDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	exporter := exporters.NewDatabaseExporter(db)
	result, err := exporter.Export(books)
	if err != nil {
		return fmt.Errorf("failed to save books: %w", err)
	}

	wordsArchived := 0
	for _, book := range books {
		for _, h := range book.Highlights {
			if h.Kind != entities.KindVocabulary {
				continue
			}
			word := vocabulary.Normalize(h.Text)
			if word == "" {
				continue
			}
			created, err := db.SaveWord(&entities.Word{Word: word, SourceBook: book.Title, SeenAt: h.AddedAt})
			if err != nil {
				log.Printf("Failed to save word '%s': %v", word, err)
				continue
			}
			if created {
				wordsArchived++
			}
		}
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Books saved: %d/%d\n", result.BooksProcessed, len(books))
	fmt.Printf("Highlights saved: %d\n", result.HighlightsProcessed)
	fmt.Printf("Words archived: %d\n", wordsArchived)
	if result.BooksFailed > 0 {
		fmt.Printf("Books failed: %d\n", result.BooksFailed)
	}

	fmt.Println("\nImport complete!")
	return nil
}
