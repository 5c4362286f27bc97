package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"weatherd/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

type userRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewUserRepository(db *sqlx.DB, log *logrus.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

// CreateUser inserts the user and fills in the generated ID and timestamp.
// Uniqueness is enforced by the database constraints, not a prior read, so
// concurrent registrations cannot race past the check.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query, user.Username, user.Email, user.PasswordHash).StructScan(user)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

// GetUserByIdentifier looks a user up by username or email in a single query.
func (r *userRepository) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1 OR email = $1`
	err := r.db.GetContext(ctx, &user, query, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// mapUniqueViolation converts a unique-constraint violation into the matching
// conflict error based on which constraint fired.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return err
	}
	switch pqErr.Constraint {
	case "users_username_key":
		return ErrUsernameTaken
	case "users_email_key":
		return ErrEmailTaken
	default:
		return ErrUsernameTaken
	}
}
