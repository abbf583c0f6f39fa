package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"
	"github.com/paharnama-dev/paharnama/internal/domain"
	internal_errors "github.com/paharnama-dev/paharnama/internal/errors"
)

const userColumns = `id, email, password_hash,
	COALESCE(first_name, ''), COALESCE(last_name, ''), role,
	is_verified, is_active, last_login_at, refresh_token_hash, created_at`

// =========================================================================
// Public Methods (satisfy the service UserStorage interfaces)
// =========================================================================

// SaveUser is the public entry point for creating a new user. It wraps the
// core logic in a transaction to ensure the operation is atomic.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

// UserByEmail is a public, read-only method to fetch a user by email.
// It uses the main database connection pool for efficiency.
func (s *Storage) UserByEmail(email string) (domain.User, error) {
	return s.userBy(s.db, "email = $1", strings.ToLower(email))
}

// UserById is a public, read-only method to fetch a user by id.
func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.userBy(s.db, "id = $1", id)
}

// UpdateLoginState records a successful login: the bcrypt hash of the
// freshly minted refresh token plus the login timestamp.
func (s *Storage) UpdateLoginState(id domain.UserId, refreshTokenHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateLoginState(tx, id, refreshTokenHash)
	})
}

// RotateRefreshToken atomically swaps the stored refresh token hash.
// The update is a compare-and-swap on the previous hash, so if two
// clients race with the same refresh token only one rotation wins; the
// loser gets an unauthorized error instead of silently overwriting.
func (s *Storage) RotateRefreshToken(id domain.UserId, oldHash, newHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.rotateRefreshToken(tx, id, oldHash, newHash)
	})
}

// ClearRefreshToken invalidates the stored refresh token. It is
// idempotent: logging out twice is not an error.
func (s *Storage) ClearRefreshToken(id domain.UserId) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.clearRefreshToken(tx, id)
	})
}

// UpdatePassword is the public entry point for changing a user's password.
// The stored refresh token hash is cleared in the same transaction so
// existing sessions cannot be refreshed with the old credential.
func (s *Storage) UpdatePassword(id domain.UserId, passwordHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updatePassword(tx, id, passwordHash)
	})
}

// UpdateUser applies a partial admin update to a user record.
func (s *Storage) UpdateUser(id domain.UserId, update domain.UserUpdate) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var user domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.updateUser(tx, id, update); err != nil {
			return err
		}
		var err error
		user, err = s.userBy(tx, "id = $1", id)
		return err
	})
	return user, err
}

// Users lists users for the admin panel with pagination, optional
// case-insensitive search over email and name, and optional filters.
// The returned count is the total number of matches before pagination.
func (s *Storage) Users(query domain.UserQuery) ([]domain.User, int, error) {
	return s.users(s.db, query.Normalized())
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

// saveUser contains the core logic for inserting a new user record.
// A duplicate email surfaces as a 409 via the unique constraint rather
// than a racy check-then-insert.
func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id int64
	err := q.QueryRow(`
        INSERT INTO users(email, password_hash, first_name, last_name, role)
        VALUES($1, $2, $3, $4, $5) RETURNING id`,
		strings.ToLower(user.Email), user.PasswordHash, user.FirstName, user.LastName, user.Role,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return -1, &internal_errors.ErrorWithStatusCode{Message: "User with this email already exists", StatusCode: http.StatusConflict}
		}
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// userBy contains the core logic for fetching a single user record.
func (s *Storage) userBy(q Querier, where string, arg interface{}) (domain.User, error) {
	var user domain.User
	var lastLoginAt sql.NullTime
	var refreshTokenHash sql.NullString
	err := q.QueryRow("SELECT "+userColumns+" FROM users WHERE "+where, arg).Scan(
		&user.Id, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Role,
		&user.IsVerified, &user.IsActive, &lastLoginAt, &refreshTokenHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	if lastLoginAt.Valid {
		t := lastLoginAt.Time
		user.LastLoginAt = &t
	}
	if refreshTokenHash.Valid {
		h := refreshTokenHash.String
		user.RefreshTokenHash = &h
	}
	return user, nil
}

func (s *Storage) updateLoginState(q Querier, id domain.UserId, refreshTokenHash string) error {
	result, err := q.Exec("UPDATE users SET refresh_token_hash = $1, last_login_at = now() WHERE id = $2",
		refreshTokenHash, id)
	if err != nil {
		return fmt.Errorf("failed to update login state: %w", err)
	}
	return requireAffected(result, "User not found")
}

func (s *Storage) rotateRefreshToken(q Querier, id domain.UserId, oldHash, newHash string) error {
	result, err := q.Exec("UPDATE users SET refresh_token_hash = $1 WHERE id = $2 AND refresh_token_hash = $3",
		newHash, id, oldHash)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for token rotation: %w", err)
	}
	if rowsAffected == 0 {
		// Lost the race or token already cleared.
		return &internal_errors.ErrorWithStatusCode{Message: "Invalid or expired refresh token", StatusCode: http.StatusUnauthorized}
	}
	return nil
}

func (s *Storage) clearRefreshToken(q Querier, id domain.UserId) error {
	_, err := q.Exec("UPDATE users SET refresh_token_hash = NULL WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// updatePassword contains the core logic for updating a user's password hash.
func (s *Storage) updatePassword(q Querier, id domain.UserId, passwordHash string) error {
	result, err := q.Exec("UPDATE users SET password_hash = $1, refresh_token_hash = NULL WHERE id = $2",
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireAffected(result, "User not found for password update")
}

// updateUser builds the SET clause dynamically from the non-nil fields.
func (s *Storage) updateUser(q Querier, id domain.UserId, update domain.UserUpdate) error {
	set := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.FirstName != nil {
		add("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		add("last_name", *update.LastName)
	}
	if update.Role != nil {
		add("role", *update.Role)
	}
	if update.IsActive != nil {
		add("is_active", *update.IsActive)
	}
	if update.IsVerified != nil {
		add("is_verified", *update.IsVerified)
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))
	result, err := q.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireAffected(result, "User not found")
}

func (s *Storage) users(q Querier, query domain.UserQuery) ([]domain.User, int, error) {
	where := []string{"TRUE"}
	args := []interface{}{}
	add := func(condition string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(condition, len(args)))
	}

	if query.Search != "" {
		add("(email ILIKE $%[1]d OR first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d)", "%"+query.Search+"%")
	}
	if query.Role != nil {
		add("role = $%d", *query.Role)
	}
	if query.IsActive != nil {
		add("is_active = $%d", *query.IsActive)
	}
	if query.IsVerified != nil {
		add("is_verified = $%d", *query.IsVerified)
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM users WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	args = append(args, query.Limit, query.Offset())
	rows, err := q.Query(fmt.Sprintf(
		"SELECT %s FROM users WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		userColumns, whereClause, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		var lastLoginAt sql.NullTime
		var refreshTokenHash sql.NullString
		if err := rows.Scan(
			&user.Id, &user.Email, &user.PasswordHash,
			&user.FirstName, &user.LastName, &user.Role,
			&user.IsVerified, &user.IsActive, &lastLoginAt, &refreshTokenHash, &user.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		if lastLoginAt.Valid {
			t := lastLoginAt.Time
			user.LastLoginAt = &t
		}
		if refreshTokenHash.Valid {
			h := refreshTokenHash.String
			user.RefreshTokenHash = &h
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, total, nil
}

func requireAffected(result sql.Result, notFoundMessage string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: notFoundMessage, StatusCode: http.StatusNotFound}
	}
	return nil
}
