// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help code agents understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// The application uses several categories of interfaces:
//
// ## Exporter Interfaces
//
//   - BookExporter: Persist parsed books to a sink (internal/exporters/generic.go)
//
// ## External Service Interfaces
//
//   - notionsync.API: The slice of the Notion REST API the sync driver needs
//     (internal/notionsync/driver.go)
//   - dictionary.Client: Word definitions (internal/dictionary/client.go)
//
// ## Parsing Interfaces
//
//   - kindle.TitleRewriter: Title cleanup before parsing (internal/kindle/parser.go)
//
// # Adding a New Export Sink
//
// To write parsed clippings somewhere new (e.g., JSON):
//
//  1. Implement BookExporter in internal/exporters/
//
//     type JSONExporter struct {
//         Path string
//     }
//
//     func (e *JSONExporter) Export(books []entities.Book) (ExportResult, error)
//
//     var _ BookExporter = (*JSONExporter)(nil)
//
//  2. Wire it into the relevant command in internal/cli/
//
// # Adding a New Dictionary Provider
//
// To add a new word definition source:
//
//  1. Implement Client in internal/dictionary/
//
//     type MerriamWebsterClient struct {
//         apiKey string
//     }
//
//     func (c *MerriamWebsterClient) Lookup(ctx context.Context, word string) (*LookupResult, error)
//     func (c *MerriamWebsterClient) Name() string
//
//     var _ Client = (*MerriamWebsterClient)(nil)
//
//  2. Pick it in the vocab command
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
