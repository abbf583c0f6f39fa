package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/paharnama-dev/paharnama/internal/config"
	"github.com/paharnama-dev/paharnama/internal/domain"
	"github.com/paharnama-dev/paharnama/internal/errors"
	"github.com/paharnama-dev/paharnama/internal/jwt"
	"github.com/paharnama-dev/paharnama/internal/logger"
	"github.com/paharnama-dev/paharnama/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(req RegisterRequest) (domain.Profile, error)
	Login(email, password string) (domain.TokenPair, domain.Profile, error)
	VerifyEmail(token string) error
	ResendVerification(email string) error
	Refresh(refreshToken string) (domain.TokenPair, error)
	Logout(userId domain.UserId) error
	ChangePassword(userId domain.UserId, currentPassword, newPassword string) error
}

type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type Auth struct {
	storage AuthStorage
	email   Email
	jwt     jwt.TokenService
	cfg     *config.Public
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByEmail(email string) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
	UpdateLoginState(id domain.UserId, refreshTokenHash string) error
	RotateRefreshToken(id domain.UserId, oldHash, newHash string) error
	ClearRefreshToken(id domain.UserId) error
	UpdatePassword(id domain.UserId, passwordHash string) error

	SaveVerification(v domain.EmailVerification) error
	VerificationByToken(token string) (domain.EmailVerification, error)
	ConsumeVerification(token string) (domain.UserId, error)
	InvalidateVerifications(userId domain.UserId) error
}

type Email interface {
	IsCorrect(email string) error
	SendVerificationEmail(recipientEmail, firstName, token string) error
	SendWelcomeEmail(recipientEmail, firstName string) error
}

func NewAuth(storage AuthStorage, email Email, jwt jwt.TokenService, cfg *config.Public) *Auth {
	return &Auth{
		storage: storage,
		email:   email,
		jwt:     jwt,
		cfg:     cfg,
	}
}

// Register creates an unverified account and mails a verification link.
// Email delivery is best-effort: a down SMTP server must not lose the
// registration, the user can always request a resend.
func (a *Auth) Register(req RegisterRequest) (domain.Profile, error) {
	email := strings.ToLower(req.Email)

	if err := a.email.IsCorrect(email); err != nil {
		return domain.Profile{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.Profile{}, err
	}

	id, err := a.storage.SaveUser(domain.User{
		Email:        email,
		PasswordHash: string(passwordHash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         domain.RoleUser,
	})
	if err != nil {
		return domain.Profile{}, err
	}

	if err := a.issueVerification(id, email, req.FirstName); err != nil {
		return domain.Profile{}, err
	}

	user, err := a.storage.UserById(id)
	if err != nil {
		return domain.Profile{}, err
	}
	return user.Profile(), nil
}

// validateUser checks credentials and account state. Unknown email and
// wrong password collapse into the same generic unauthorized error.
func (a *Auth) validateUser(email, password string) (domain.User, error) {
	invalidCreds := &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.User{}, invalidCreds
		}
		return domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, invalidCreds
	}

	if !user.IsActive {
		return domain.User{}, &errors.ErrorWithStatusCode{Message: "Your account has been deactivated", StatusCode: http.StatusUnauthorized}
	}
	return user, nil
}

// Login authenticates the user and starts a session: a token pair is
// minted and the refresh token digest is persisted alongside the login
// timestamp.
func (a *Auth) Login(email, password string) (domain.TokenPair, domain.Profile, error) {
	user, err := a.validateUser(strings.ToLower(email), password)
	if err != nil {
		return domain.TokenPair{}, domain.Profile{}, err
	}

	if !user.IsVerified {
		return domain.TokenPair{}, domain.Profile{}, &errors.ErrorWithStatusCode{Message: "Please verify your email before logging in", StatusCode: http.StatusUnauthorized}
	}

	pair, err := a.jwt.NewTokenPair(user)
	if err != nil {
		logger.Log.Error("failed to create token pair", "user_id", user.Id, "error", err)
		return domain.TokenPair{}, domain.Profile{}, err
	}

	if err := a.storage.UpdateLoginState(user.Id, utils.HashToken(pair.RefreshToken)); err != nil {
		return domain.TokenPair{}, domain.Profile{}, err
	}

	return pair, user.Profile(), nil
}

// VerifyEmail redeems a verification token. The distinct error messages
// are deliberate: the token is a secret mailed to the owner, so telling
// them why their link failed leaks nothing.
func (a *Auth) VerifyEmail(token string) error {
	v, err := a.storage.VerificationByToken(token)
	if err != nil {
		if errors.IsNotFound(err) {
			return &errors.ErrorWithStatusCode{Message: "Invalid verification token", StatusCode: http.StatusBadRequest}
		}
		return err
	}
	if v.Used() {
		return &errors.ErrorWithStatusCode{Message: "This verification link has already been used", StatusCode: http.StatusBadRequest}
	}
	if v.Expired(time.Now().UTC()) {
		return &errors.ErrorWithStatusCode{Message: "This verification link has expired. Please request a new one", StatusCode: http.StatusBadRequest}
	}

	userId, err := a.storage.ConsumeVerification(token)
	if err != nil {
		return err
	}

	user, err := a.storage.UserById(userId)
	if err != nil {
		logger.Log.Error("verified user lookup failed", "user_id", userId, "error", err)
		return nil // account is verified, welcome mail is a nicety
	}
	if err := a.email.SendWelcomeEmail(user.Email, user.FirstName); err != nil {
		logger.Log.Warn("failed to send welcome email", "user_id", userId, "error", err)
	}
	return nil
}

// ResendVerification issues a fresh verification link and invalidates
// any outstanding ones. An unknown email succeeds silently so the
// endpoint cannot be used to probe which addresses are registered.
func (a *Auth) ResendVerification(email string) error {
	email = strings.ToLower(email)

	if err := a.email.IsCorrect(email); err != nil {
		return err
	}

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			logger.Log.Info("verification resend for unknown email")
			return nil
		}
		return err
	}

	if user.IsVerified {
		return &errors.ErrorWithStatusCode{Message: "This email is already verified", StatusCode: http.StatusBadRequest}
	}

	if err := a.storage.InvalidateVerifications(user.Id); err != nil {
		return err
	}
	return a.issueVerification(user.Id, user.Email, user.FirstName)
}

func (a *Auth) issueVerification(userId domain.UserId, email, firstName string) error {
	token := utils.GenerateVerificationToken()
	err := a.storage.SaveVerification(domain.EmailVerification{
		UserId:    userId,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(a.cfg.VerificationTokenTTL),
	})
	if err != nil {
		return err
	}

	if err := a.email.SendVerificationEmail(email, firstName, token); err != nil {
		logger.Log.Warn("failed to send verification email", "user_id", userId, "error", err)
	}
	return nil
}

// Refresh rotates a refresh token: the presented token must decode, its
// digest must match the stored one, and the swap to the new digest is
// atomic so a replayed token cannot mint a second session. Every failure
// mode maps to the same generic unauthorized error.
func (a *Auth) Refresh(refreshToken string) (domain.TokenPair, error) {
	invalidToken := &errors.ErrorWithStatusCode{Message: "Invalid or expired refresh token", StatusCode: http.StatusUnauthorized}

	claims, err := a.jwt.DecodeRefreshToken(refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	user, err := a.storage.UserById(claims.UserId)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.TokenPair{}, invalidToken
		}
		return domain.TokenPair{}, err
	}

	if !user.IsActive || user.RefreshTokenHash == nil {
		return domain.TokenPair{}, invalidToken
	}
	if !utils.TokenHashEquals(*user.RefreshTokenHash, refreshToken) {
		return domain.TokenPair{}, invalidToken
	}

	pair, err := a.jwt.NewTokenPair(user)
	if err != nil {
		logger.Log.Error("failed to create token pair", "user_id", user.Id, "error", err)
		return domain.TokenPair{}, err
	}

	err = a.storage.RotateRefreshToken(user.Id, utils.HashToken(refreshToken), utils.HashToken(pair.RefreshToken))
	if err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}

// Logout drops the stored refresh token. Idempotent.
func (a *Auth) Logout(userId domain.UserId) error {
	return a.storage.ClearRefreshToken(userId)
}

// ChangePassword verifies the current password before swapping in the
// new hash. The storage layer clears the refresh token in the same
// transaction, forcing a fresh login everywhere.
func (a *Auth) ChangePassword(userId domain.UserId, currentPassword, newPassword string) error {
	user, err := a.storage.UserById(userId)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return &errors.ErrorWithStatusCode{Message: "Current password is incorrect", StatusCode: http.StatusBadRequest}
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}
	return a.storage.UpdatePassword(userId, string(newHash))
}
