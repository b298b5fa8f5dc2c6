package kindle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/pvidals/clipnotion/internal/entities"
)

// Clipping is a single parsed entry from My Clippings.txt. Values are
// immutable once parsed; grouping copies them into books.
type Clipping struct {
	Title       string
	Author      string
	Kind        entities.EntryKind
	Page        int
	PageEnd     int
	Location    int
	LocationEnd int
	AddedAt     time.Time
	Text        string
}

// ParseFailure records a block that did not match the expected layout.
// Failures are collected and reported; they never abort the parse.
type ParseFailure struct {
	Block  int    // 1-based index of the block in the file
	Title  string // title line, when one was present
	Reason string
}

func (f ParseFailure) String() string {
	if f.Title != "" {
		return fmt.Sprintf("block %d (%s): %s", f.Block, f.Title, f.Reason)
	}
	return fmt.Sprintf("block %d: %s", f.Block, f.Reason)
}

// TitleRewriter rewrites known-bad title lines before parsing. Devices
// truncate and mangle titles; the rewriter maps them back to canonical form.
type TitleRewriter interface {
	Apply(line string) string
}

// Parser parses the Kindle My Clippings.txt format.
type Parser struct {
	titles TitleRewriter
}

func NewParser() *Parser {
	return &Parser{}
}

// NewParserWithTitles returns a parser that passes every title line through rw.
func NewParserWithTitles(rw TitleRewriter) *Parser {
	return &Parser{titles: rw}
}

const entrySeparator = "=========="

// Regex patterns for parsing metadata lines
var (
	// Matches: "- Your Highlight on page 8 | Location 64-64 | Added on Tuesday, April 15, 2025 10:16:21 PM"
	// or: "- Your Note on page 31 | Location 307 | Added on Tuesday, April 15, 2025 11:33:26 PM"
	// or: "- Your Highlight at location 784-785 | Added on Saturday, 26 March 2016 18:37:26"
	// or: "- Your Bookmark at location 346 | Added on Saturday, 26 March 2016 15:46:21"
	metadataPattern = regexp.MustCompile(`^- Your (Highlight|Note|Bookmark)`)

	// Page patterns: "on page 8" or "on page 207-207"
	pagePattern = regexp.MustCompile(`(?i)(?:on )?page (\d+)(?:-(\d+))?`)

	// Location patterns: "Location 64-64" or "location 1406-1407" or "at location 784-785"
	locationPattern = regexp.MustCompile(`(?i)(?:at )?location (\d+)(?:-(\d+))?`)

	// Date layouts observed in the wild, US and international exports
	dateLayouts = []string{
		"Added on Monday, January 2, 2006 3:04:05 PM",
		"Added on Monday, January 2, 2006 15:04:05",
		"Added on Monday, 2 January 2006 3:04:05 PM",
		"Added on Monday, 2 January 2006 15:04:05",
	}

	// Title with author: "Book Title (Author Name)"
	// Some books don't have author in parentheses
	titleAuthorPattern = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)\s*$`)
)

// Parse reads a My Clippings.txt file and returns the aggregated books along
// with any per-block parse failures.
func (p *Parser) Parse(r io.Reader) ([]entities.Book, []ParseFailure, error) {
	clippings, failures, err := p.ParseClippings(r)
	if err != nil {
		return nil, nil, err
	}

	return GroupIntoBooks(clippings), failures, nil
}

// ParseClippings parses individual clipping entries from the reader. Blocks
// that do not match the expected layout are recorded as failures and skipped;
// only reader errors are fatal.
func (p *Parser) ParseClippings(r io.Reader) ([]Clipping, []ParseFailure, error) {
	scanner := bufio.NewScanner(r)

	var clippings []Clipping
	var failures []ParseFailure
	var currentLines []string
	blockIndex := 0
	firstLine := true

	flush := func() {
		if isBlankBlock(currentLines) {
			currentLines = nil
			return
		}
		blockIndex++
		clipping, err := p.parseEntry(currentLines)
		if err != nil {
			failures = append(failures, ParseFailure{
				Block:  blockIndex,
				Title:  titleLineOf(currentLines),
				Reason: err.Error(),
			})
		} else {
			clippings = append(clippings, *clipping)
		}
		currentLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if firstLine {
			// Kindle writes a UTF-8 BOM at the start of the file
			line = strings.TrimPrefix(line, "\uFEFF")
			firstLine = false
		}

		if line == entrySeparator {
			flush()
			continue
		}

		currentLines = append(currentLines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading clippings: %w", err)
	}

	// Handle last entry if file doesn't end with separator
	flush()

	return clippings, failures, nil
}

func (p *Parser) parseEntry(lines []string) (*Clipping, error) {
	if len(lines) < 2 {
		return nil, fmt.Errorf("entry too short")
	}

	// First line: Title (Author) or just Title
	titleLine := strings.TrimSpace(lines[0])
	if titleLine == "" {
		return nil, fmt.Errorf("empty title line")
	}
	if p.titles != nil {
		titleLine = p.titles.Apply(titleLine)
	}

	title, author := parseTitleAuthor(titleLine)

	// Second line: Metadata (kind, page, location, date)
	metadataLine := strings.TrimSpace(lines[1])
	if !metadataPattern.MatchString(metadataLine) {
		return nil, fmt.Errorf("missing metadata line")
	}

	kind := parseEntryKind(metadataLine)
	page, pageEnd := parsePageRange(metadataLine)
	location, locationEnd := parseLocationRange(metadataLine)
	addedAt, err := parseDate(metadataLine)
	if err != nil {
		return nil, err
	}

	// Remaining lines (after blank line): Text content
	// Format is: title, metadata, blank line, content
	var textLines []string
	startContent := false
	for i := 2; i < len(lines); i++ {
		line := lines[i]
		if !startContent && strings.TrimSpace(line) == "" {
			startContent = true
			continue
		}
		if startContent || strings.TrimSpace(line) != "" {
			startContent = true
			textLines = append(textLines, line)
		}
	}

	text := strings.TrimSpace(strings.Join(textLines, "\n"))

	// Bookmarks legitimately have no content; everything else must
	if text == "" && kind != entities.KindBookmark {
		return nil, fmt.Errorf("empty content")
	}

	return &Clipping{
		Title:       title,
		Author:      author,
		Kind:        kind,
		Page:        page,
		PageEnd:     pageEnd,
		Location:    location,
		LocationEnd: locationEnd,
		AddedAt:     addedAt,
		Text:        text,
	}, nil
}

func parseTitleAuthor(line string) (title, author string) {
	matches := titleAuthorPattern.FindStringSubmatch(line)
	if len(matches) == 3 {
		return strings.TrimSpace(matches[1]), strings.TrimSpace(matches[2])
	}

	// Older exports and rewritten titles use "Title by Author"
	if idx := strings.LastIndex(line, " by "); idx > 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+len(" by "):])
	}

	// No author at all, use whole line as title
	return strings.TrimSpace(line), ""
}

func parseEntryKind(line string) entities.EntryKind {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "your highlight"):
		return entities.KindHighlight
	case strings.Contains(lower, "your note"):
		return entities.KindNote
	case strings.Contains(lower, "your bookmark"):
		return entities.KindBookmark
	default:
		return entities.KindHighlight
	}
}

func parsePageRange(line string) (page, pageEnd int) {
	matches := pagePattern.FindStringSubmatch(line)
	if len(matches) >= 2 {
		page, _ = strconv.Atoi(matches[1])
		if len(matches) >= 3 && matches[2] != "" {
			pageEnd, _ = strconv.Atoi(matches[2])
		}
	}
	return
}

func parseLocationRange(line string) (location, locationEnd int) {
	matches := locationPattern.FindStringSubmatch(line)
	if len(matches) >= 2 {
		location, _ = strconv.Atoi(matches[1])
		if len(matches) >= 3 && matches[2] != "" {
			locationEnd, _ = strconv.Atoi(matches[2])
		}
	}
	return
}

func parseDate(line string) (time.Time, error) {
	// Extract the date part after "Added on"
	idx := strings.Index(strings.ToLower(line), "added on")
	if idx == -1 {
		return time.Time{}, fmt.Errorf("missing date")
	}

	dateStr := strings.TrimSpace(line[idx+len("added on"):])
	full := "Added on " + dateStr

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, full); err == nil {
			return t, nil
		}
	}

	// Some firmware versions write dates in other shapes entirely
	if t, err := dateparse.ParseAny(dateStr); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", dateStr)
}

func titleLineOf(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[0])
}

func isBlankBlock(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
