package kindle

import (
	"strings"
	"testing"
	"time"

	"github.com/pvidals/clipnotion/internal/entities"
)

// Test fixtures are adapted from https://github.com/biokraft/kindle2readwise/tree/main/tests/fixtures

func TestParser_ParseClippings_BasicHighlight(t *testing.T) {
	input := `The_Power_of_Now (Eckhart Tolle)
- Your Highlight on page 8 | Location 64-64 | Added on Tuesday, April 15, 2025 10:16:21 PM

would change for the better. Values would shift in the flotsam
==========
`

	parser := NewParser()
	clippings, failures, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}

	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}

	clipping := clippings[0]
	if clipping.Title != "The_Power_of_Now" {
		t.Errorf("expected title 'The_Power_of_Now', got '%s'", clipping.Title)
	}
	if clipping.Author != "Eckhart Tolle" {
		t.Errorf("expected author 'Eckhart Tolle', got '%s'", clipping.Author)
	}
	if clipping.Kind != entities.KindHighlight {
		t.Errorf("expected kind highlight, got '%s'", clipping.Kind)
	}
	if clipping.Page != 8 {
		t.Errorf("expected page 8, got %d", clipping.Page)
	}
	if clipping.Location != 64 {
		t.Errorf("expected location 64, got %d", clipping.Location)
	}
	if clipping.LocationEnd != 64 {
		t.Errorf("expected location end 64, got %d", clipping.LocationEnd)
	}
	if clipping.Text != "would change for the better. Values would shift in the flotsam" {
		t.Errorf("unexpected text: %s", clipping.Text)
	}
}

func TestParser_ParseClippings_Note(t *testing.T) {
	input := `The_Power_of_Now (Eckhart Tolle)
- Your Note on page 31 | Location 307 | Added on Tuesday, April 15, 2025 11:33:26 PM

Watch the thinker or be present in the moment
==========
`

	parser := NewParser()
	clippings, _, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}

	clipping := clippings[0]
	if clipping.Kind != entities.KindNote {
		t.Errorf("expected kind note, got '%s'", clipping.Kind)
	}
	if clipping.Page != 31 {
		t.Errorf("expected page 31, got %d", clipping.Page)
	}
	if clipping.Location != 307 {
		t.Errorf("expected location 307, got %d", clipping.Location)
	}
	if clipping.Text != "Watch the thinker or be present in the moment" {
		t.Errorf("unexpected text: %s", clipping.Text)
	}
}

func TestParser_ParseClippings_Bookmark(t *testing.T) {
	input := `Fahrenheit 451 (Ray Bradbury)
- Your Bookmark at location 346 | Added on Saturday, 26 March 2016 15:46:21


==========
`

	parser := NewParser()
	clippings, failures, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}

	// Bookmarks parse cleanly even though they carry no text
	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}
	if clippings[0].Kind != entities.KindBookmark {
		t.Errorf("expected kind bookmark, got '%s'", clippings[0].Kind)
	}
	if clippings[0].Text != "" {
		t.Errorf("expected empty text, got '%s'", clippings[0].Text)
	}
}

func TestParser_ParseClippings_LocationOnlyFormat(t *testing.T) {
	input := `Fahrenheit 451 (Ray Bradbury)
- Your Highlight at location 784-785 | Added on Saturday, 26 March 2016 18:37:26

Who knows who might be the target of the well-read man?
==========
`

	parser := NewParser()
	clippings, _, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}

	clipping := clippings[0]
	if clipping.Location != 784 {
		t.Errorf("expected location 784, got %d", clipping.Location)
	}
	if clipping.LocationEnd != 785 {
		t.Errorf("expected location end 785, got %d", clipping.LocationEnd)
	}
	if clipping.Page != 0 {
		t.Errorf("expected page 0, got %d", clipping.Page)
	}
}

func TestParser_ParseClippings_NoAuthor(t *testing.T) {
	input := `Harry_Potter_und_die_Kammer_des_Schreckens
- Your Highlight on page 207-207 | Added on Monday, April 21, 2025 8:55:24 PM

Harry drehte sich auf die Seite
==========
`

	parser := NewParser()
	clippings, _, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}

	clipping := clippings[0]
	if clipping.Title != "Harry_Potter_und_die_Kammer_des_Schreckens" {
		t.Errorf("expected title without author, got '%s'", clipping.Title)
	}
	if clipping.Author != "" {
		t.Errorf("expected empty author, got '%s'", clipping.Author)
	}
	if clipping.Page != 207 {
		t.Errorf("expected page 207, got %d", clipping.Page)
	}
	if clipping.PageEnd != 207 {
		t.Errorf("expected page end 207, got %d", clipping.PageEnd)
	}
}

func TestParser_ParseClippings_TitleByAuthorFormat(t *testing.T) {
	input := `Thinking, Fast and Slow by Daniel Kahneman
- Your Highlight on page 24 | Added on Monday, 1 January 2024 10:00:00

Nothing in life is as important as you think it is.
==========
`

	parser := NewParser()
	clippings, _, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}
	if clippings[0].Title != "Thinking, Fast and Slow" {
		t.Errorf("expected title 'Thinking, Fast and Slow', got '%s'", clippings[0].Title)
	}
	if clippings[0].Author != "Daniel Kahneman" {
		t.Errorf("expected author 'Daniel Kahneman', got '%s'", clippings[0].Author)
	}
}

func TestParser_ParseClippings_HighlightWithPageOnly(t *testing.T) {
	input := `Hello world (Jane Doe)
- Your Highlight on page 12 | Added on Monday, 1 January 2024 10:00:00

Hello world content
==========
`

	parser := NewParser()
	clippings, failures, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}
	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}

	clipping := clippings[0]
	if clipping.Kind != entities.KindHighlight {
		t.Errorf("expected kind highlight, got '%s'", clipping.Kind)
	}
	if clipping.Page != 12 {
		t.Errorf("expected page 12, got %d", clipping.Page)
	}
	if clipping.Text != "Hello world content" {
		t.Errorf("unexpected text: %s", clipping.Text)
	}
	want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if !clipping.AddedAt.Equal(want) {
		t.Errorf("expected added at %v, got %v", want, clipping.AddedAt)
	}
}

func TestParser_ParseClippings_MultiLineHighlight(t *testing.T) {
	input := `Test Book (Test Author)
- Your Highlight on page 1 | Location 10-15 | Added on Wednesday, January 1, 2025 12:00:00 PM

This highlight spans
multiple lines of text
that should be preserved.
==========
`

	parser := NewParser()
	clippings, _, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}

	expectedText := "This highlight spans\nmultiple lines of text\nthat should be preserved."
	if clippings[0].Text != expectedText {
		t.Errorf("expected multiline text '%s', got '%s'", expectedText, clippings[0].Text)
	}
}

func TestParser_ParseClippings_EmptyHighlightRecorded(t *testing.T) {
	input := `Test Book (Test Author)
- Your Highlight on Location 275 | Added on Monday, January 6, 2025 3:10:00 PM


==========
`

	parser := NewParser()
	clippings, failures, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(clippings) != 0 {
		t.Fatalf("expected 0 clippings, got %d", len(clippings))
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].Reason != "empty content" {
		t.Errorf("expected reason 'empty content', got '%s'", failures[0].Reason)
	}
	if failures[0].Title != "Test Book (Test Author)" {
		t.Errorf("unexpected failure title: %s", failures[0].Title)
	}
}

func TestParser_ParseClippings_MissingMetadataLine(t *testing.T) {
	input := `Broken Book (Nobody)
this line is not metadata

some content
==========
Good Book (Somebody)
- Your Highlight on page 3 | Added on Saturday, 26 March 2016 14:59:39

real content
==========
`

	parser := NewParser()
	clippings, failures, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The malformed block is recorded and skipped, parsing continues
	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}
	if clippings[0].Title != "Good Book" {
		t.Errorf("expected the good block to survive, got '%s'", clippings[0].Title)
	}

	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].Block != 1 {
		t.Errorf("expected failure in block 1, got %d", failures[0].Block)
	}
	if failures[0].Reason != "missing metadata line" {
		t.Errorf("expected reason 'missing metadata line', got '%s'", failures[0].Reason)
	}
}

func TestParser_ParseClippings_UnparseableDate(t *testing.T) {
	input := `Test Book (Test Author)
- Your Highlight on page 3 | Added on banana

some content
==========
`

	parser := NewParser()
	clippings, failures, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(clippings) != 0 {
		t.Fatalf("expected 0 clippings, got %d", len(clippings))
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if !strings.Contains(failures[0].Reason, "unparseable date") {
		t.Errorf("unexpected reason: %s", failures[0].Reason)
	}
}

func TestParser_ParseClippings_FallbackDateFormat(t *testing.T) {
	input := `Test Book (Test Author)
- Your Highlight on page 3 | Added on 2024-01-15 10:30:00

fallback date content
==========
`

	parser := NewParser()
	clippings, failures, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}
	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}

	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !clippings[0].AddedAt.Equal(want) {
		t.Errorf("expected added at %v, got %v", want, clippings[0].AddedAt)
	}
}

func TestParser_ParseClippings_StripsBOM(t *testing.T) {
	input := "\uFEFF" + `The_Power_of_Now (Eckhart Tolle)
- Your Highlight on page 8 | Location 64-64 | Added on Tuesday, April 15, 2025 10:16:21 PM

content here
==========
`

	parser := NewParser()
	clippings, _, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}
	if clippings[0].Title != "The_Power_of_Now" {
		t.Errorf("BOM not stripped from title: %q", clippings[0].Title)
	}
}

func TestParser_ParseClippings_NoTrailingSeparator(t *testing.T) {
	input := `Test Book (Test Author)
- Your Highlight on page 1 | Added on Monday, 2 January 2006 15:04:05

last entry without separator`

	parser := NewParser()
	clippings, _, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}
	if clippings[0].Text != "last entry without separator" {
		t.Errorf("unexpected text: %s", clippings[0].Text)
	}
}

type staticRewriter struct {
	rules map[string]string
}

func (r staticRewriter) Apply(line string) string {
	if fixed, ok := r.rules[line]; ok {
		return fixed
	}
	return line
}

func TestParser_ParseClippings_AppliesTitleRewriter(t *testing.T) {
	input := `B01N5AX4W2
- Your Highlight on page 8 | Added on Tuesday, April 15, 2025 10:16:21 PM

some content
==========
`

	rewriter := staticRewriter{rules: map[string]string{
		"B01N5AX4W2": "Deep Work (Cal Newport)",
	}}

	parser := NewParserWithTitles(rewriter)
	clippings, _, err := parser.ParseClippings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(clippings) != 1 {
		t.Fatalf("expected 1 clipping, got %d", len(clippings))
	}
	if clippings[0].Title != "Deep Work" {
		t.Errorf("expected rewritten title 'Deep Work', got '%s'", clippings[0].Title)
	}
	if clippings[0].Author != "Cal Newport" {
		t.Errorf("expected author 'Cal Newport', got '%s'", clippings[0].Author)
	}
}

func TestParseTitleAuthor(t *testing.T) {
	tests := []struct {
		input          string
		expectedTitle  string
		expectedAuthor string
	}{
		{
			input:          "The_Power_of_Now (Eckhart Tolle)",
			expectedTitle:  "The_Power_of_Now",
			expectedAuthor: "Eckhart Tolle",
		},
		{
			input:          "The Selfish Gene: 30th Anniversary Edition (Richard Dawkins)",
			expectedTitle:  "The Selfish Gene: 30th Anniversary Edition",
			expectedAuthor: "Richard Dawkins",
		},
		{
			input:          "Harry_Potter_und_die_Kammer_des_Schreckens",
			expectedTitle:  "Harry_Potter_und_die_Kammer_des_Schreckens",
			expectedAuthor: "",
		},
		{
			input:          "Book With (Nested (Parentheses)) (Author Name)",
			expectedTitle:  "Book With (Nested (Parentheses))",
			expectedAuthor: "Author Name",
		},
		{
			input:          "Thinking in Systems by Donella Meadows",
			expectedTitle:  "Thinking in Systems",
			expectedAuthor: "Donella Meadows",
		},
		{
			input:          "Death by Black Hole by Neil deGrasse Tyson",
			expectedTitle:  "Death by Black Hole",
			expectedAuthor: "Neil deGrasse Tyson",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			title, author := parseTitleAuthor(tt.input)
			if title != tt.expectedTitle {
				t.Errorf("expected title '%s', got '%s'", tt.expectedTitle, title)
			}
			if author != tt.expectedAuthor {
				t.Errorf("expected author '%s', got '%s'", tt.expectedAuthor, author)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{
			input:    "- Your Highlight on page 8 | Location 64-64 | Added on Tuesday, April 15, 2025 10:16:21 PM",
			expected: time.Date(2025, 4, 15, 22, 16, 21, 0, time.UTC),
		},
		{
			input:    "- Your Highlight on page 92 | location 1406-1407 | Added on Saturday, 26 March 2016 14:59:39",
			expected: time.Date(2016, 3, 26, 14, 59, 39, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := parseDate(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.Equal(tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestParseDate_MissingDate(t *testing.T) {
	_, err := parseDate("- Your Highlight on page 8 | Location 64-64")
	if err == nil {
		t.Fatal("expected error for metadata without date")
	}
}

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		input        string
		expectedPage int
		expectedEnd  int
	}{
		{"on page 8", 8, 0},
		{"on page 207-207", 207, 207},
		{"page 1-5", 1, 5},
		{"no page here", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			page, end := parsePageRange(tt.input)
			if page != tt.expectedPage {
				t.Errorf("expected page %d, got %d", tt.expectedPage, page)
			}
			if end != tt.expectedEnd {
				t.Errorf("expected end %d, got %d", tt.expectedEnd, end)
			}
		})
	}
}

func TestParseLocationRange(t *testing.T) {
	tests := []struct {
		input       string
		expectedLoc int
		expectedEnd int
	}{
		{"Location 64-64", 64, 64},
		{"location 1406-1407", 1406, 1407},
		{"at location 784-785", 784, 785},
		{"Location 307", 307, 0},
		{"no location here", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			loc, end := parseLocationRange(tt.input)
			if loc != tt.expectedLoc {
				t.Errorf("expected location %d, got %d", tt.expectedLoc, loc)
			}
			if end != tt.expectedEnd {
				t.Errorf("expected end %d, got %d", tt.expectedEnd, end)
			}
		})
	}
}
