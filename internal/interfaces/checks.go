package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/pvidals/clipnotion/internal/dictionary"
	"github.com/pvidals/clipnotion/internal/exporters"
	"github.com/pvidals/clipnotion/internal/kindle"
	"github.com/pvidals/clipnotion/internal/notion"
	"github.com/pvidals/clipnotion/internal/notionsync"
	"github.com/pvidals/clipnotion/internal/titles"
)

// =============================================================================
// Exporters
// =============================================================================

// BookExporter implementations
var _ exporters.BookExporter = (*exporters.DatabaseExporter)(nil)
var _ exporters.BookExporter = (*exporters.CSVExporter)(nil)

// =============================================================================
// External Services
// =============================================================================

// The sync driver talks to Notion through the API interface
var _ notionsync.API = (*notion.Client)(nil)

// DictionaryClient implementations
var _ dictionary.Client = (*dictionary.FreeDictionaryClient)(nil)

// =============================================================================
// Parsing
// =============================================================================

// TitleRewriter implementations
var _ kindle.TitleRewriter = (*titles.Rewriter)(nil)
