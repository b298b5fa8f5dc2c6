package database

import (
	"gorm.io/gorm"

	"github.com/pvidals/clipnotion/internal/entities"
)

// SaveWord stores a vocabulary word unless a case-insensitive match is
// already archived. Reports whether a new row was created.
func (d *Database) SaveWord(word *entities.Word) (bool, error) {
	var existing entities.Word
	result := d.DB.Where("LOWER(word) = LOWER(?)", word.Word).First(&existing)
	if result.Error == gorm.ErrRecordNotFound {
		if err := d.DB.Create(word).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	return false, result.Error
}

// FindWord looks up a word case-insensitively.
func (d *Database) FindWord(word string) (*entities.Word, error) {
	var existing entities.Word
	err := d.DB.Where("LOWER(word) = LOWER(?)", word).First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// GetAllWords returns every archived word, oldest first.
func (d *Database) GetAllWords() ([]entities.Word, error) {
	var words []entities.Word
	err := d.DB.Order("seen_at ASC, id ASC").Find(&words).Error
	return words, err
}
