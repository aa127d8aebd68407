package session

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// record is the single row holding the persisted display name, the
// local analog of a browser's stored username.
type record struct {
	ID       uint `gorm:"primarykey"`
	Username string
}

func (record) TableName() string { return "session" }

// Store persists the identity across process restarts.
type Store struct {
	db *gorm.DB
}

func NewStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Get() (string, bool) {
	var r record
	if err := s.db.First(&r, 1).Error; err != nil {
		return "", false
	}
	if r.Username == "" {
		return "", false
	}
	return r.Username, true
}

func (s *Store) Set(name string) error {
	r := record{ID: 1, Username: name}
	return s.db.Save(&r).Error
}

func (s *Store) Clear() error {
	return s.db.Delete(&record{}, 1).Error
}

// ErrEmptyName is returned by Login when the trimmed name is empty.
var ErrEmptyName = fmt.Errorf("display name must not be empty")

// Trim normalizes a display name the way the login form does.
func Trim(name string) string {
	return strings.TrimSpace(name)
}
