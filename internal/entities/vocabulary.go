package entities

import (
	"time"
)

// Word is a vocabulary word encountered while reading. Words are unique by
// their lowercased text; the store only ever grows.
type Word struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Word       string    `gorm:"uniqueIndex;size:100" json:"word"`
	SourceBook string    `gorm:"size:512" json:"source_book"`
	SeenAt     time.Time `json:"seen_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Word) TableName() string {
	return "words"
}
