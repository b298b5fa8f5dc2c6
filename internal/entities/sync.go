package entities

import (
	"time"
)

type SyncStatus string

const (
	SyncStatusPending   SyncStatus = "pending"
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncSession records one Notion sync run in the local archive.
type SyncSession struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Status         SyncStatus `gorm:"size:20;default:'pending'" json:"status"`
	BooksProcessed int        `json:"books_processed"`
	PagesCreated   int        `json:"pages_created"`
	BlocksUploaded int        `json:"blocks_uploaded"`
	BlocksSkipped  int        `json:"blocks_skipped"`
	Errors         string     `gorm:"type:text" json:"errors,omitempty"` // JSON array of errors
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func (SyncSession) TableName() string {
	return "sync_sessions"
}
