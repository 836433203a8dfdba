// Package users is the directory of API users and their roles.
package users

import (
	"context"
	"errors"

	"geo_hierarchy/models"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrDuplicateCode = errors.New("user with this code already exists")
)

// Store persists users. Codes are unique across all roles.
type Store interface {
	// Create assigns the user an id and creation time and stores it.
	Create(ctx context.Context, u *models.User) error
	FindByCodeRole(ctx context.Context, code, role string) (*models.User, error)
	FindByCode(ctx context.Context, code string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Ping(ctx context.Context) error
}
