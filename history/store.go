// Package history persists answered prompts in a local SQLite database, so
// interactive tools can recall what a user entered in earlier sessions.
// Secret answers are never stored in clear text.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is one recorded answer.
type Entry struct {
	ID        string `gorm:"primaryKey"`
	Prompt    string `gorm:"index"`
	TypeName  string
	Value     string
	Secret    bool
	Attempts  int
	CreatedAt int64 `gorm:"autoCreateTime"`
}

// BeforeCreate hook to generate UUID
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	return nil
}

// Store is an answer history backed by SQLite.
type Store struct {
	db *gorm.DB
}

// DefaultPath returns the store location under the user's home directory.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".askline", "askline.db")
}

// Open opens the store at path, creating the file and its directory when
// they do not exist yet.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Record saves one answer. Secret values are replaced with a bcrypt hash
// before they reach disk; use VerifySecret to check a remembered secret.
func (s *Store) Record(e *Entry) error {
	if e.Secret && e.Value != "" {
		hash, err := HashSecret(e.Value)
		if err != nil {
			return err
		}
		e.Value = hash
	}
	return s.db.Create(e).Error
}

// Recent retrieves the n most recently recorded entries.
func (s *Store) Recent(n int) ([]*Entry, error) {
	var entries []*Entry
	err := s.db.Order("created_at DESC").Limit(n).Find(&entries).Error
	return entries, err
}

// ByPrompt retrieves all entries recorded under a prompt label.
func (s *Store) ByPrompt(label string) ([]*Entry, error) {
	var entries []*Entry
	err := s.db.Where("prompt = ?", label).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// Count returns how many entries are recorded.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.Model(&Entry{}).Count(&n).Error
	return n, err
}

// Purge deletes every recorded entry.
func (s *Store) Purge() error {
	return s.db.Where("1 = 1").Delete(&Entry{}).Error
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HashSecret hashes a secret answer for storage.
func HashSecret(value string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(value), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}

// VerifySecret reports whether value matches a stored secret hash.
func VerifySecret(hash, value string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(value)) == nil
}
