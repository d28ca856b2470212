package users

import "context"

// Repo defines persistence operations for users.
type Repo interface {
	// Create inserts the user and returns the store-assigned id.
	Create(ctx context.Context, user User) (int64, error)
	GetByID(ctx context.Context, userID int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}
