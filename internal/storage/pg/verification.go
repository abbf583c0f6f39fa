package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/paharnama-dev/paharnama/internal/domain"
	internal_errors "github.com/paharnama-dev/paharnama/internal/errors"
)

// =========================================================================
// Public Methods (satisfy the service VerificationStorage interface)
// =========================================================================

// SaveVerification stores a freshly issued email verification token.
func (s *Storage) SaveVerification(v domain.EmailVerification) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveVerification(tx, v)
	})
}

// VerificationByToken is a public, read-only lookup of a token row.
func (s *Storage) VerificationByToken(token string) (domain.EmailVerification, error) {
	return s.verificationByToken(s.db, token)
}

// ConsumeVerification marks the token as used and flips the owning user
// to verified, atomically. If the token was consumed by a concurrent
// request the conditional update affects zero rows and the caller gets
// an already-used error instead of a double activation.
func (s *Storage) ConsumeVerification(token string) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var userId domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		userId, err = s.consumeVerification(tx, token)
		return err
	})
	return userId, err
}

// InvalidateVerifications marks every outstanding token of the user as
// used, so only the most recently mailed link stays valid after a resend.
func (s *Storage) InvalidateVerifications(userId domain.UserId) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.invalidateVerifications(tx, userId)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveVerification(q Querier, v domain.EmailVerification) error {
	_, err := q.Exec(`
        INSERT INTO email_verifications(user_id, token, expires_at)
        VALUES($1, $2, $3)`,
		v.UserId, v.Token, v.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert email verification: %w", err)
	}
	return nil
}

func (s *Storage) verificationByToken(q Querier, token string) (domain.EmailVerification, error) {
	var v domain.EmailVerification
	var usedAt sql.NullTime
	err := q.QueryRow(`
        SELECT id, user_id, token, (expires_at at time zone 'utc'), used_at, created_at
        FROM email_verifications WHERE token = $1`,
		token,
	).Scan(&v.Id, &v.UserId, &v.Token, &v.ExpiresAt, &usedAt, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.EmailVerification{}, &internal_errors.ErrorWithStatusCode{Message: "Verification token not found", StatusCode: http.StatusNotFound}
		}
		return domain.EmailVerification{}, fmt.Errorf("failed to query email verification: %w", err)
	}
	if usedAt.Valid {
		t := usedAt.Time
		v.UsedAt = &t
	}
	return v, nil
}

func (s *Storage) consumeVerification(q Querier, token string) (domain.UserId, error) {
	var userId domain.UserId
	err := q.QueryRow(`
        UPDATE email_verifications SET used_at = now()
        WHERE token = $1 AND used_at IS NULL
        RETURNING user_id`,
		token,
	).Scan(&userId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "This verification link has already been used", StatusCode: http.StatusBadRequest}
		}
		return 0, fmt.Errorf("failed to consume email verification: %w", err)
	}

	result, err := q.Exec("UPDATE users SET is_verified = TRUE WHERE id = $1", userId)
	if err != nil {
		return 0, fmt.Errorf("failed to mark user verified: %w", err)
	}
	if err := requireAffected(result, "User not found"); err != nil {
		return 0, err
	}
	return userId, nil
}

func (s *Storage) invalidateVerifications(q Querier, userId domain.UserId) error {
	_, err := q.Exec("UPDATE email_verifications SET used_at = now() WHERE user_id = $1 AND used_at IS NULL", userId)
	if err != nil {
		return fmt.Errorf("failed to invalidate email verifications: %w", err)
	}
	return nil
}
