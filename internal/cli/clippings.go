// Package cli implements the command-line commands.
package cli

import (
	"fmt"
	"os"

	"github.com/pvidals/clipnotion/internal/entities"
	"github.com/pvidals/clipnotion/internal/kindle"
	"github.com/pvidals/clipnotion/internal/titles"
)

// parseClippings opens and parses a My Clippings.txt file, optionally passing
// titles through a rewrite table first. Shared by every command that reads
// clippings.
func parseClippings(path, titlesPath string) ([]entities.Book, []kindle.ParseFailure, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("clippings file not found: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open clippings file: %w", err)
	}
	defer file.Close()

	parser := kindle.NewParser()
	if titlesPath != "" {
		rewriter, err := titles.Load(titlesPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load titles file: %w", err)
		}
		parser = kindle.NewParserWithTitles(rewriter)
	}

	return parser.Parse(file)
}

func printParseFailures(failures []kindle.ParseFailure) {
	if len(failures) == 0 {
		return
	}
	fmt.Printf("\n⚠️  %d blocks could not be parsed:\n", len(failures))
	for _, f := range failures {
		fmt.Printf("  - %s\n", f.String())
	}
}

func countClippings(books []entities.Book) int {
	total := 0
	for _, book := range books {
		total += len(book.Highlights)
	}
	return total
}

// countByKind tallies clippings per entry kind across all books.
func countByKind(books []entities.Book) map[entities.EntryKind]int {
	counts := make(map[entities.EntryKind]int)
	for _, book := range books {
		for _, h := range book.Highlights {
			counts[h.Kind]++
		}
	}
	return counts
}
