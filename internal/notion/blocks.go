package notion

import (
	"strings"
)

const (
	BlockTypeQuote     = "quote"
	BlockTypeParagraph = "paragraph"
)

// Notion rejects a single rich text run longer than this
const maxRichTextLength = 2000

// RichText is one run of text inside a block or property. When building
// payloads Text is set; responses additionally carry PlainText.
type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

type TextContent struct {
	Content string `json:"content"`
}

// Block is a Notion content block. Only the shapes the sync reads and
// writes are modeled: quotes for highlights and paragraphs for notes and
// spacing.
type Block struct {
	Object    string     `json:"object,omitempty"`
	ID        string     `json:"id,omitempty"`
	Type      string     `json:"type"`
	Quote     *BlockText `json:"quote,omitempty"`
	Paragraph *BlockText `json:"paragraph,omitempty"`
}

type BlockText struct {
	RichText []RichText `json:"rich_text"`
}

// NewQuoteBlock builds a quote block holding the given text.
func NewQuoteBlock(text string) Block {
	return Block{
		Object: "block",
		Type:   BlockTypeQuote,
		Quote:  &BlockText{RichText: textRuns(text)},
	}
}

// NewParagraphBlock builds a paragraph block. An empty text yields an
// empty paragraph, used as a spacer between quotes.
func NewParagraphBlock(text string) Block {
	return Block{
		Object:    "block",
		Type:      BlockTypeParagraph,
		Paragraph: &BlockText{RichText: textRuns(text)},
	}
}

// PlainText returns the concatenated text content of the block. Block
// types the sync does not model yield an empty string.
func (b Block) PlainText() string {
	var content *BlockText
	switch b.Type {
	case BlockTypeQuote:
		content = b.Quote
	case BlockTypeParagraph:
		content = b.Paragraph
	}
	if content == nil {
		return ""
	}

	var sb strings.Builder
	for _, rt := range content.RichText {
		if rt.PlainText != "" {
			sb.WriteString(rt.PlainText)
			continue
		}
		if rt.Text != nil {
			sb.WriteString(rt.Text.Content)
		}
	}
	return sb.String()
}

// textRuns splits text into runs short enough for the API. The empty
// string yields an empty slice, which marshals to an empty rich_text
// array.
func textRuns(text string) []RichText {
	if text == "" {
		return []RichText{}
	}

	runes := []rune(text)
	var runs []RichText
	for start := 0; start < len(runes); start += maxRichTextLength {
		end := start + maxRichTextLength
		if end > len(runes) {
			end = len(runes)
		}
		runs = append(runs, RichText{
			Type: "text",
			Text: &TextContent{Content: string(runes[start:end])},
		})
	}
	return runs
}
