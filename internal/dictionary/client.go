package dictionary

import (
	"context"
)

// Definition is one sense of a word.
type Definition struct {
	PartOfSpeech string
	Definition   string
	Example      string
}

// LookupResult contains the result of a dictionary lookup.
type LookupResult struct {
	Word          string
	Definitions   []Definition
	Pronunciation string
}

// Client defines the interface for dictionary API providers.
type Client interface {
	Lookup(ctx context.Context, word string) (*LookupResult, error)
	Name() string
}
