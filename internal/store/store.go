// Package store persists engagement data: likes, comments, subscriptions,
// watch history and playback progress. Every table name is qualified with
// the configured prefix.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrDuplicate is returned when an insert hits a unique constraint
	ErrDuplicate = errors.New("store: duplicate row")
	// ErrNotFound is returned when a single-row lookup matches nothing
	ErrNotFound = errors.New("store: not found")
)

// Store is the engagement persistence layer
type Store struct {
	db     *gorm.DB
	prefix string
}

// New creates a store over db. prefix is prepended to every table name.
func New(db *gorm.DB, prefix string) *Store {
	return &Store{db: db, prefix: prefix}
}

// DB returns the underlying connection
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Prefix returns the table prefix
func (s *Store) Prefix() string {
	return s.prefix
}

// Table returns the prefixed name of table
func (s *Store) Table(name string) string {
	return s.prefix + name
}

func (s *Store) table(ctx context.Context, name string) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.Table(name))
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
