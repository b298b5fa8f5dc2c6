package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pvidals/clipnotion/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Book{},
		&entities.Highlight{},
		&entities.Word{},
		&entities.SyncSession{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveBook upserts a book and its highlights, deduplicating by text,
// location and timestamp so re-importing a grown clippings file only adds
// the new entries.
func (d *Database) SaveBook(book *entities.Book) error {
	var existing entities.Book
	result := d.DB.Preload("Highlights").
		Where("title = ? AND author = ?", book.Title, book.Author).
		First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		return d.DB.Create(book).Error
	}
	if result.Error != nil {
		return result.Error
	}

	seen := make(map[string]bool, len(existing.Highlights))
	for _, h := range existing.Highlights {
		seen[highlightKey(h)] = true
	}

	var fresh []entities.Highlight
	for _, h := range book.Highlights {
		if seen[highlightKey(h)] {
			continue
		}
		h.BookID = existing.ID
		fresh = append(fresh, h)
	}

	book.ID = existing.ID
	if len(fresh) == 0 {
		return nil
	}
	return d.DB.Create(&fresh).Error
}

func highlightKey(h entities.Highlight) string {
	return fmt.Sprintf("%s|%d|%s", h.Text, h.Location, h.AddedAt.Format("2006-01-02 15:04:05"))
}

func (d *Database) GetBookByTitleAndAuthor(title, author string) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.Preload("Highlights", func(db *gorm.DB) *gorm.DB {
		return db.Order("added_at ASC")
	}).Where("title = ? AND author = ?", title, author).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (d *Database) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := d.DB.Preload("Highlights", func(db *gorm.DB) *gorm.DB {
		return db.Order("added_at ASC")
	}).Order("title ASC").Find(&books).Error
	return books, err
}

func (d *Database) GetStats() (totalBooks, totalHighlights, totalWords int64, err error) {
	err = d.DB.Model(&entities.Book{}).Count(&totalBooks).Error
	if err != nil {
		return
	}
	err = d.DB.Model(&entities.Highlight{}).Count(&totalHighlights).Error
	if err != nil {
		return
	}
	err = d.DB.Model(&entities.Word{}).Count(&totalWords).Error
	return
}
