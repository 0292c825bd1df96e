package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/skald/internal/domain"
)

const userColumns = `id, name, email, password_hash, role, phone, date_of_birth, city, address,
	last_online, books_bought_amount, created_at, updated_at`

// CreateUser inserts a user account. A duplicate email returns
// domain.ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string, role domain.Role) (*domain.User, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		name, email, passwordHash, role,
	)

	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetUser retrieves a single user by ID.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return user, nil
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.listUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
}

// ListUsersByRole returns all users with the given role, newest first.
func (s *Store) ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return s.listUsers(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at DESC, id DESC`, role)
}

func (s *Store) listUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateUser applies a partial update; nil fields are left unchanged. The
// password field, when set, must already be hashed.
func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, params domain.UpdateUserParams) (*domain.User, error) {
	var passwordHash *string
	if params.Password != nil {
		passwordHash = params.Password
	}

	row := s.db.QueryRow(ctx, `
		UPDATE users SET
			name          = COALESCE($2, name),
			email         = COALESCE($3, email),
			password_hash = COALESCE($4, password_hash),
			role          = COALESCE($5, role),
			phone         = COALESCE($6, phone),
			date_of_birth = COALESCE($7, date_of_birth),
			city          = COALESCE($8, city),
			address       = COALESCE($9, address),
			updated_at    = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, params.Name, params.Email, passwordHash, params.Role,
		params.Phone, params.DateOfBirth, params.City, params.Address,
	)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user account. The user's cart cascades; purchase
// records are kept.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// IncrementBooksBought adds delta to the user's aggregate purchase counter.
// Only the checkout transaction calls this.
func (s *Store) IncrementBooksBought(ctx context.Context, id uuid.UUID, delta int32) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET books_bought_amount = books_bought_amount + $2, updated_at = now() WHERE id = $1`,
		id, delta,
	)
	if err != nil {
		return fmt.Errorf("increment books bought: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// scanUser reads one user row in userColumns order.
func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Phone,
		&u.DateOfBirth, &u.City, &u.Address, &u.LastOnline,
		&u.BooksBoughtAmount, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
