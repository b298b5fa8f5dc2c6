package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pvidals/clipnotion/internal/config"
	"github.com/pvidals/clipnotion/internal/dictionary"
	"github.com/pvidals/clipnotion/internal/vocabulary"
)

// VocabCommand appends newly seen dictionary lookups to the vocabulary file.
type VocabCommand struct {
	cfg        *config.Config
	FilePath   string
	TitlesPath string
	VocabPath  string
	DryRun     bool
	Define     bool
}

func NewVocabCommand(cfg *config.Config) *VocabCommand {
	return &VocabCommand{cfg: cfg}
}

// ParseFlags parses command-line flags for the vocab command
func (c *VocabCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("vocab", flag.ExitOnError)

	fs.StringVar(&c.FilePath, "file", c.cfg.Kindle.ClippingsPath, "Path to the 'My Clippings.txt' file")
	fs.StringVar(&c.TitlesPath, "titles", c.cfg.Kindle.TitlesPath, "Path to a JSON title rewrite table (optional)")
	fs.StringVar(&c.VocabPath, "vocab", c.cfg.Vocabulary.Path, "Path to the vocabulary CSV file")
	fs.BoolVar(&c.DryRun, "dry-run", false, "Show new words without saving them")
	fs.BoolVar(&c.Define, "define", false, "Look up definitions for new words")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vocab [options]\n\n")
		fmt.Fprintf(os.Stderr, "Collect single-word lookups from clippings and append the new ones\n")
		fmt.Fprintf(os.Stderr, "to the vocabulary CSV file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s vocab -file \"My Clippings.txt\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s vocab -dry-run -define\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the vocab command
func (c *VocabCommand) Run() error {
	fmt.Println("Vocabulary Update")
	fmt.Println("=================")
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
	printParseFailures(failures)

	store := vocabulary.NewStore(c.VocabPath)
	if err := store.Load(); err != nil {
		return fmt.Errorf("failed to load vocabulary store: %w", err)
	}
	fmt.Printf("Known words: %d\n", store.Count())

	tracker := vocabulary.NewTracker(store)
	words := tracker.Collect(books)
	if len(words) == 0 {
		fmt.Println("\nNo new words found")
		return nil
	}

	fmt.Printf("\nFound %d new words:\n", len(words))
	for _, w := range words {
		fmt.Printf("  + %s (%s)\n", w.Word, w.SourceBook)
	}

	if c.Define {
		fmt.Println("\n=== Definitions ===")
		client := dictionary.NewFreeDictionaryClient()
		for _, w := range words {
			result, err := client.Lookup(context.Background(), w.Word)
			if err != nil {
				fmt.Printf("%s: (no definition found)\n", w.Word)
				continue
			}
			if result.Pronunciation != "" {
				fmt.Printf("%s %s\n", result.Word, result.Pronunciation)
			} else {
				fmt.Printf("%s\n", result.Word)
			}
			for i, def := range result.Definitions {
				if i >= 2 {
					break
				}
				fmt.Printf("  (%s) %s\n", def.PartOfSpeech, def.Definition)
			}
		}
	}

	if c.DryRun {
		fmt.Println("\nDry run complete. Run without -dry-run to save.")
		return nil
	}

	if err := store.Append(words); err != nil {
		return fmt.Errorf("failed to save vocabulary: %w", err)
	}
	fmt.Printf("\nSaved %d new words to %s (total %d)\n", len(words), c.VocabPath, store.Count())
	return nil
}
