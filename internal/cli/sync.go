package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pvidals/clipnotion/internal/audit"
	"github.com/pvidals/clipnotion/internal/config"
	"github.com/pvidals/clipnotion/internal/database"
	"github.com/pvidals/clipnotion/internal/entities"
	"github.com/pvidals/clipnotion/internal/notion"
	"github.com/pvidals/clipnotion/internal/notionsync"
)

// SyncCommand pushes parsed clippings to the Notion database.
type SyncCommand struct {
	cfg          *config.Config
	FilePath     string
	TitlesPath   string
	DatabasePath string
	AuditDir     string
	DryRun       bool
	Verbose      bool
}

func NewSyncCommand(cfg *config.Config) *SyncCommand {
	return &SyncCommand{cfg: cfg}
}

// ParseFlags parses command-line flags for the sync command
func (c *SyncCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)

	fs.StringVar(&c.FilePath, "file", c.cfg.Kindle.ClippingsPath, "Path to the 'My Clippings.txt' file")
	fs.StringVar(&c.TitlesPath, "titles", c.cfg.Kindle.TitlesPath, "Path to a JSON title rewrite table (optional)")
	fs.StringVar(&c.DatabasePath, "db", c.cfg.Database.Path, "Path to the local archive database")
	fs.StringVar(&c.AuditDir, "audit-dir", c.cfg.Audit.Dir, "Directory for audit reports (empty disables them)")
	fs.BoolVar(&c.DryRun, "dry-run", false, "Show what would be synced without uploading anything")
	fs.BoolVar(&c.Verbose, "verbose", false, "Show detailed progress")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sync [options]\n\n")
		fmt.Fprintf(os.Stderr, "Upload Kindle clippings to the configured Notion database.\n")
		fmt.Fprintf(os.Stderr, "Requires NOTION_TOKEN and NOTION_DATABASE_ID to be set.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sync -file \"My Clippings.txt\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync -dry-run\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync -audit-dir ./audit\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the sync command
func (c *SyncCommand) Run() error {
	fmt.Println("🔄 Notion Sync")
	fmt.Println("==============")
	fmt.Println()

	if c.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	if c.cfg.Notion.Token == "" {
		return fmt.Errorf("NOTION_TOKEN is not set")
	}
	if c.cfg.Notion.DatabaseID == "" {
		return fmt.Errorf("NOTION_DATABASE_ID is not set")
	}

	fmt.Printf("📚 Parsing clippings from: %s\n", c.FilePath)

	books, failures, err := parseClippings(c.FilePath, c.TitlesPath)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d clippings in %d books\n", countClippings(books), len(books))
	printParseFailures(failures)

	if c.Verbose {
		fmt.Println("\n=== Books with clippings ===")
		for _, book := range books {
			fmt.Printf("  - %s: %d clippings (%d to sync)\n", book.Title, len(book.Highlights), syncableClippings(book))
		}
	}

	if c.DryRun {
		fmt.Println("\n=== Sync Plan ===")
		for _, book := range books {
			fmt.Printf("  %s: %d clippings to sync\n", book.Title, syncableClippings(book))
		}
		fmt.Println("\nDry run complete. Run without -dry-run to upload.")
		return nil
	}

	db, err := database.NewDatabase(c.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open archive database: %w", err)
	}
	defer db.Close()

	session, err := db.CreateSyncSession()
	if err != nil {
		return fmt.Errorf("failed to record sync session: %w", err)
	}

	client := notion.NewClient(notion.Config{
		Token:      c.cfg.Notion.Token,
		DatabaseID: c.cfg.Notion.DatabaseID,
		Version:    c.cfg.Notion.Version,
	})
	driver := notionsync.NewDriver(client)

	fmt.Println("\n🔄 Syncing to Notion...")
	result, err := driver.Sync(context.Background(), books)
	if err != nil {
		now := time.Now()
		session.Status = entities.SyncStatusFailed
		session.Errors = jsonErrors([]string{err.Error()})
		session.CompletedAt = &now
		if dbErr := db.UpdateSyncSession(session); dbErr != nil {
			log.Printf("Failed to record failed sync session: %v", dbErr)
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	now := time.Now()
	session.Status = entities.SyncStatusCompleted
	session.BooksProcessed = result.BooksProcessed
	session.PagesCreated = result.PagesCreated
	session.BlocksUploaded = result.BlocksUploaded
	session.BlocksSkipped = result.BlocksSkipped
	session.Errors = jsonErrors(result.Errors)
	session.CompletedAt = &now
	if err := db.UpdateSyncSession(session); err != nil {
		log.Printf("Failed to record sync session: %v", err)
	}

	if c.AuditDir != "" {
		auditor := audit.NewAuditor(c.AuditDir)
		filename, err := auditor.SaveJSON(result)
		if err != nil {
			log.Printf("Failed to save audit report: %v", err)
		} else {
			fmt.Printf("\n📝 Audit report: %s\n", filepath.Join(c.AuditDir, filename))
		}
	}

	fmt.Println("\n=== Sync Summary ===")
	fmt.Printf("Books processed: %d\n", result.BooksProcessed)
	fmt.Printf("Pages created: %d\n", result.PagesCreated)
	fmt.Printf("Blocks uploaded: %d\n", result.BlocksUploaded)
	fmt.Printf("Blocks skipped (already in Notion): %d\n", result.BlocksSkipped)

	if len(result.Errors) > 0 {
		fmt.Printf("\n⚠️  %d books failed:\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  ❌ %s\n", e)
		}
	}

	fmt.Println("\n✅ Sync complete!")
	return nil
}

// syncableClippings counts the entries the driver would upload for a book.
// Vocabulary entries stay local, so only highlights and notes count.
func syncableClippings(book entities.Book) int {
	n := 0
	for _, h := range book.Highlights {
		if h.Kind == entities.KindHighlight || h.Kind == entities.KindNote {
			n++
		}
	}
	return n
}

// jsonErrors renders an error list as a JSON array for the sessions table.
// Empty input stays an empty string so the column is NULL-ish for clean runs.
func jsonErrors(errs []string) string {
	if len(errs) == 0 {
		return ""
	}
	data, err := json.Marshal(errs)
	if err != nil {
		return ""
	}
	return string(data)
}
