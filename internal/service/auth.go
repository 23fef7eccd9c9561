package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"translateapi/internal/auth"
	"translateapi/internal/mailer"
	"translateapi/internal/model"
	"translateapi/internal/repository"
)

const (
	MsgNoUserWithID     = "There is no user with current id."
	MsgInvalidResetCode = "Invalid or expired reset code"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Quota is the allowance granted to a new account.
type Quota struct {
	CharacterLimit int64
	PageLimit      int
	FileSizeLimit  int64
}

// AuthOptions tunes account handling.
type AuthOptions struct {
	DefaultQuota     Quota
	ResetCodeTTL     time.Duration
	// MaxResetAttempts is how many wrong codes burn the active code. Defaults to 5.
	MaxResetAttempts int
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost       int
}

// RegisterResult carries the session token and the outcome of the welcome mail.
type RegisterResult struct {
	Token string        `json:"token"`
	User  *model.User   `json:"-"`
	Mail  mailer.Result `json:"mail"`
}

// AuthService covers accounts and password resets.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (string, error)
	// GetUser returns the user with their subscriptions, oldest first.
	GetUser(ctx context.Context, id string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
	// RequestPasswordReset mails a one-time code. Unknown emails are not reported.
	RequestPasswordReset(ctx context.Context, email string) (mailer.Result, error)
	ResetPassword(ctx context.Context, email, code, password string) error
}

type authService struct {
	users   repository.UserRepository
	subs    repository.SubscriptionRepository
	codes   repository.ResetCodeRepository
	tokens  *auth.TokenIssuer
	mail    mailer.Mailer
	opts    AuthOptions
	log     zerolog.Logger
	now     func() time.Time
	newCode func() (string, error)
}

// NewAuthService constructs a new AuthService.
func NewAuthService(
	users repository.UserRepository,
	subs repository.SubscriptionRepository,
	codes repository.ResetCodeRepository,
	tokens *auth.TokenIssuer,
	m mailer.Mailer,
	opts AuthOptions,
	log zerolog.Logger,
) AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.ResetCodeTTL <= 0 {
		opts.ResetCodeTTL = 15 * time.Minute
	}
	if opts.MaxResetAttempts <= 0 {
		opts.MaxResetAttempts = 5
	}
	return &authService{
		users:   users,
		subs:    subs,
		codes:   codes,
		tokens:  tokens,
		mail:    m,
		opts:    opts,
		log:     log.With().Str("component", "auth").Logger(),
		now:     time.Now,
		newCode: resetCode,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// resetCode returns six random decimal digits.
func resetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" || email == "" || in.Password == "" {
		return nil, newError(ErrValidation, MsgMissingFields)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, newError(ErrValidation, "Invalid email address")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user, err := s.users.Create(ctx, &model.User{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          email,
		PasswordHash:   string(hash),
		CharacterLimit: s.opts.DefaultQuota.CharacterLimit,
		PageLimit:      s.opts.DefaultQuota.PageLimit,
		FileSizeLimit:  s.opts.DefaultQuota.FileSizeLimit,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrEmailTaken, MsgEmailTaken)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	res := s.mail.Send(ctx, mailer.Message{
		To:      user.Email,
		Subject: "Welcome to translateapi",
		Body:    fmt.Sprintf("Hi %s,\n\nYour account is ready. You can start translating documents right away.", user.FirstName),
	})
	if res.Err != nil {
		s.log.Warn().Err(res.Err).Str("event", "welcome_mail_failed").Str("user_id", user.ID).Send()
	}

	s.log.Info().Str("event", "register").Str("user_id", user.ID).Send()
	return &RegisterResult{Token: token, User: user, Mail: res}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", newError(ErrValidation, MsgMissingFields)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", newError(ErrInvalidCredentials, MsgInvalidLogin)
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", newError(ErrInvalidCredentials, MsgInvalidLogin)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *authService) GetUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, newError(ErrValidation, "id is required")
	}
	if !validID(id) {
		return nil, newError(ErrNotFound, MsgNoUserWithID)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, MsgNoUserWithID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	subs, err := s.subs.ListByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	if subs == nil {
		subs = []model.Subscription{}
	}
	user.Subscriptions = subs
	return user, nil
}

func (s *authService) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return newError(ErrValidation, "id is required")
	}
	if !validID(id) {
		return newError(ErrNotFound, MsgUserNotFound)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, MsgUserNotFound)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("event", "user_deleted").Str("user_id", id).Send()
	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) (mailer.Result, error) {
	email = normalizeEmail(email)
	if email == "" {
		return mailer.Result{}, newError(ErrValidation, MsgMissingFields)
	}

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return mailer.Result{Skipped: true}, nil
		}
		return mailer.Result{}, fmt.Errorf("find user: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return mailer.Result{}, fmt.Errorf("generate reset code: %w", err)
	}
	expires := s.now().UTC().Add(s.opts.ResetCodeTTL)
	if err := s.codes.Upsert(ctx, email, code, expires); err != nil {
		return mailer.Result{}, fmt.Errorf("save reset code: %w", err)
	}

	res := s.mail.Send(ctx, mailer.Message{
		To:      email,
		Subject: "Your password reset code",
		Body: fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.",
			code, int(s.opts.ResetCodeTTL.Minutes())),
	})
	if res.Err != nil {
		s.log.Warn().Err(res.Err).Str("event", "reset_mail_failed").Send()
	}
	return res, nil
}

func (s *authService) ResetPassword(ctx context.Context, email, code, password string) error {
	email = normalizeEmail(email)
	if email == "" || code == "" || password == "" {
		return newError(ErrValidation, MsgMissingFields)
	}

	stored, err := s.codes.Find(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrInvalidResetCode, MsgInvalidResetCode)
		}
		return fmt.Errorf("find reset code: %w", err)
	}
	if stored.Expired(s.now()) || stored.Attempts >= s.opts.MaxResetAttempts {
		s.discardCode(ctx, email)
		return newError(ErrInvalidResetCode, MsgInvalidResetCode)
	}
	if subtle.ConstantTimeCompare([]byte(stored.Code), []byte(code)) != 1 {
		n, err := s.codes.RecordFailure(ctx, email)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("record reset failure: %w", err)
		}
		if n >= s.opts.MaxResetAttempts {
			s.log.Warn().Str("event", "reset_code_locked").Int("attempts", n).Send()
			s.discardCode(ctx, email)
		}
		return newError(ErrInvalidResetCode, MsgInvalidResetCode)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrInvalidResetCode, MsgInvalidResetCode)
		}
		return fmt.Errorf("find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.codes.Delete(ctx, email); err != nil {
		return fmt.Errorf("delete reset code: %w", err)
	}

	s.log.Info().Str("event", "password_reset").Str("user_id", user.ID).Send()
	return nil
}

// discardCode removes a code that can no longer be used.
func (s *authService) discardCode(ctx context.Context, email string) {
	if err := s.codes.Delete(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("event", "reset_code_cleanup_failed").Send()
	}
}
