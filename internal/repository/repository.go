package repository

import (
	"alcyxob/studyplan-app/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// PlanRepository defines the interface for a user's append-only plan history.
// GetAll returns plans in append order; the last element is the current plan.
type PlanRepository interface {
	Append(ctx context.Context, userID string, plan *domain.Plan) error
	GetAll(ctx context.Context, userID string) ([]domain.Plan, error)
	// UpdateTaskCompletion flips the completed flag of the task matching
	// date+taskID in the user's current plan. Returns ErrNotFound when no
	// task matches; a matched-but-unchanged update still succeeds.
	UpdateTaskCompletion(ctx context.Context, userID, date, taskID string, completed bool) error
}
