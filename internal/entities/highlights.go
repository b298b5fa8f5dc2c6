package entities

import (
	"fmt"
	"time"
)

// EntryKind classifies a clipping. The set is closed: every switch over
// EntryKind must handle all four values.
type EntryKind string

const (
	KindHighlight  EntryKind = "highlight"
	KindNote       EntryKind = "note"
	KindBookmark   EntryKind = "bookmark"
	KindVocabulary EntryKind = "vocabulary" // single-word highlight, a dictionary lookup
)

type Book struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Title      string      `gorm:"index;size:512" json:"title"`
	Author     string      `gorm:"index;size:256" json:"author"`
	Highlights []Highlight `gorm:"foreignKey:BookID" json:"highlights,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type Highlight struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	BookID uint      `gorm:"index" json:"book_id"`
	Kind   EntryKind `gorm:"size:20;default:'highlight'" json:"kind"`
	Text   string    `gorm:"type:text" json:"text"`

	// Location information as reported by the device
	Page        int `json:"page,omitempty"`
	PageEnd     int `json:"page_end,omitempty"` // for ranges
	Location    int `json:"location,omitempty"`
	LocationEnd int `json:"location_end,omitempty"`

	// When the user made the clipping on the device
	AddedAt time.Time `json:"added_at,omitempty"`

	Book Book `gorm:"foreignKey:BookID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

func (Highlight) TableName() string {
	return "highlights"
}

// HasPage reports whether the clipping carries page information.
func (h Highlight) HasPage() bool {
	return h.Page > 0
}

// PageLabel renders the page range the way it appears in exported notes,
// e.g. "p. 12" or "p. 12-14". Empty when no page is known.
func (h Highlight) PageLabel() string {
	if h.Page <= 0 {
		return ""
	}
	if h.PageEnd > h.Page {
		return fmt.Sprintf("p. %d-%d", h.Page, h.PageEnd)
	}
	return fmt.Sprintf("p. %d", h.Page)
}

// SourceLabel renders where in the book the clipping was made, preferring
// pages over device locations, e.g. "p. 12" or "loc. 784-785". Empty when
// neither is known.
func (h Highlight) SourceLabel() string {
	if label := h.PageLabel(); label != "" {
		return label
	}
	if h.Location <= 0 {
		return ""
	}
	if h.LocationEnd > h.Location {
		return fmt.Sprintf("loc. %d-%d", h.Location, h.LocationEnd)
	}
	return fmt.Sprintf("loc. %d", h.Location)
}
