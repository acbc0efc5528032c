package store

import (
	"context"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
)

// CreateUser inserts u
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.table(ctx, models.TableUsers).Create(u).Error)
}

// FindUser loads a user by ID
func (s *Store) FindUser(ctx context.Context, id uint64) (*models.User, error) {
	var u models.User
	if err := s.table(ctx, models.TableUsers).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
