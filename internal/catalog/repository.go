// Package catalog looks up media items and taxonomy terms and describes
// them to the access gate
package catalog

import (
	"context"
	"errors"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/access"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an item or term does not exist
var ErrNotFound = errors.New("catalog: not found")

// Repository reads the media catalog
type Repository struct {
	db     *gorm.DB
	prefix string
}

// NewRepository creates a catalog over db using the table prefix
func NewRepository(db *gorm.DB, prefix string) *Repository {
	return &Repository{db: db, prefix: prefix}
}

func (r *Repository) table(ctx context.Context, name string) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.prefix + name)
}

// FindMedia loads a media item
func (r *Repository) FindMedia(ctx context.Context, id uint64) (*models.MediaItem, error) {
	var item models.MediaItem
	err := r.table(ctx, models.TableMediaItems).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindTerm loads a taxonomy term
func (r *Repository) FindTerm(ctx context.Context, id uint64) (*models.Term, error) {
	var term models.Term
	err := r.table(ctx, models.TableTerms).Where("id = ?", id).First(&term).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &term, nil
}

// CreateMedia inserts item
func (r *Repository) CreateMedia(ctx context.Context, item *models.MediaItem) error {
	return r.table(ctx, models.TableMediaItems).Create(item).Error
}

// CreateTerm inserts term
func (r *Repository) CreateTerm(ctx context.Context, term *models.Term) error {
	return r.table(ctx, models.TableTerms).Create(term).Error
}

// MediaTarget loads item id as a gate target
func (r *Repository) MediaTarget(ctx context.Context, id uint64) (access.Target, error) {
	item, err := r.FindMedia(ctx, id)
	if err != nil {
		return access.Target{}, err
	}
	return MediaTarget(item), nil
}

// TermTarget loads term id as a gate target
func (r *Repository) TermTarget(ctx context.Context, id uint64) (access.Target, error) {
	term, err := r.FindTerm(ctx, id)
	if err != nil {
		return access.Target{}, err
	}
	return TermTarget(term), nil
}

// MediaTarget describes item to the gate
func MediaTarget(item *models.MediaItem) access.Target {
	return access.Target{
		ID:               item.ID,
		Kind:             access.KindMedia,
		Status:           string(item.Status),
		PasswordHash:     item.PasswordHash,
		MembershipLevels: []string(item.MembershipLevels),
	}
}

// TermTarget describes term to the gate
func TermTarget(term *models.Term) access.Target {
	return access.Target{
		ID:               term.ID,
		Kind:             access.KindTerm,
		PasswordHash:     term.PasswordHash,
		MembershipLevels: []string(term.MembershipLevels),
	}
}
