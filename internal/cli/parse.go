package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/pvidals/clipnotion/internal/config"
	"github.com/pvidals/clipnotion/internal/entities"
	"github.com/pvidals/clipnotion/internal/exporters"
)

// ParseCommand parses a clippings file and prints what was found without
// touching Notion or the archive.
type ParseCommand struct {
	cfg        *config.Config
	FilePath   string
	TitlesPath string
	CSVPath    string
	ExportCSV  bool
	Verbose    bool
}

func NewParseCommand(cfg *config.Config) *ParseCommand {
	return &ParseCommand{cfg: cfg}
}

// ParseFlags parses command-line flags for the parse command
func (c *ParseCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)

	fs.StringVar(&c.FilePath, "file", c.cfg.Kindle.ClippingsPath, "Path to the 'My Clippings.txt' file")
	fs.StringVar(&c.TitlesPath, "titles", c.cfg.Kindle.TitlesPath, "Path to a JSON title rewrite table (optional)")
	fs.BoolVar(&c.ExportCSV, "csv", false, "Export parsed clippings to a CSV file")
	fs.StringVar(&c.CSVPath, "csv-path", c.cfg.Export.CSVPath, "Path for the CSV export")
	fs.BoolVar(&c.Verbose, "verbose", false, "Show every parsed book")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: parse [options]\n\n")
		fmt.Fprintf(os.Stderr, "Parse a Kindle 'My Clippings.txt' file and print what was found.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s parse -file \"My Clippings.txt\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s parse -file clippings.txt -csv -csv-path highlights.csv\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the parse command
func (c *ParseCommand) Run() error {
	fmt.Println("Clippings Parse")
	fmt.Println("===============")
	fmt.Println()

	fmt.Printf("Parsing clippings from: %s\n", c.FilePath)

	books, failures, err := parseClippings(c.FilePath, c.TitlesPath)
	if err != nil {
		return err
	}

	counts := countByKind(books)
	fmt.Printf("Found %d clippings in %d books\n", countClippings(books), len(books))
	fmt.Printf("  highlights: %d\n", counts[entities.KindHighlight])
	fmt.Printf("  notes:      %d\n", counts[entities.KindNote])
	fmt.Printf("  vocabulary: %d\n", counts[entities.KindVocabulary])

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

	if c.ExportCSV {
		result, err := exporters.WriteClippingsCSV(c.CSVPath, books)
		if err != nil {
			return err
		}
		fmt.Printf("\nExported %d clippings to %s\n", result.HighlightsProcessed, c.CSVPath)
	}

	fmt.Println("\nParse complete!")
	return nil
}
