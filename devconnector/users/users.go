package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// creates a new user repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// creates the users table when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, querySchema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	return nil
}

// finds a user by email, matching case-insensitively
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, queryFindByEmail, NormalizeEmail(email))
}

// finds a user by their ID
func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, queryFindByID, id)
}

// inserts a new user, assigning an id
func (r *Repository) Create(ctx context.Context, user *User) (*User, error) {
	var created User

	err := r.db.QueryRow(
		ctx,
		queryCreate,
		uuid.NewString(),
		user.Name,
		NormalizeEmail(user.Email),
		user.AvatarURL,
		user.PasswordHash,
	).Scan(
		&created.ID,
		&created.Name,
		&created.Email,
		&created.AvatarURL,
		&created.PasswordHash,
		&created.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrEmailTaken
		}

		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

func (r *Repository) findOne(ctx context.Context, query string, arg string) (*User, error) {
	var user User

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.AvatarURL,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// lowercases and trims an email so lookups match registration
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
