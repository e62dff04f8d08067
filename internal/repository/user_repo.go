package repository

import (
	"context"

	"github.com/user/price-tracker/internal/entity"
)

// UserRepository defines the interface for storing user accounts.
type UserRepository interface {
	// Create inserts a new user. ErrDuplicate is returned if the email is taken.
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	UpdateBankDetails(ctx context.Context, id string, bank entity.BankDetails) error
}
