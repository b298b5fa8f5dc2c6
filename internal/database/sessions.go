package database

import (
	"time"

	"github.com/pvidals/clipnotion/internal/entities"
)

// CreateSyncSession opens a new sync session in the running state.
func (d *Database) CreateSyncSession() (*entities.SyncSession, error) {
	session := &entities.SyncSession{
		Status:    entities.SyncStatusRunning,
		StartedAt: time.Now(),
	}
	if err := d.DB.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (d *Database) UpdateSyncSession(session *entities.SyncSession) error {
	return d.DB.Save(session).Error
}

// GetRecentSyncSessions returns the latest sessions, newest first.
func (d *Database) GetRecentSyncSessions(limit int) ([]entities.SyncSession, error) {
	var sessions []entities.SyncSession
	query := d.DB.Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&sessions).Error
	return sessions, err
}
