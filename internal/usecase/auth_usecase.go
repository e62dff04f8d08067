package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/price-tracker/internal/entity"
	"github.com/user/price-tracker/internal/repository"
)

// AuthPolicy decides who may register and who is an administrator.
type AuthPolicy struct {
	// AllowedDomains lists the email domains accepted for sign-up and login.
	AllowedDomains []string
	// AdminEmail is always allowed and always an administrator.
	AdminEmail string
	SessionTTL time.Duration
}

// Authenticator manages accounts and their sessions. Sessions are only
// created by Register and Login and only removed by Logout.
type Authenticator interface {
	Register(ctx context.Context, email, password string) (*entity.User, *entity.Session, error)
	Login(ctx context.Context, email, password string) (*entity.User, *entity.Session, error)
	Logout(ctx context.Context, session *entity.Session) error
	// Authenticate resolves a bearer token into its session.
	Authenticate(ctx context.Context, token string) (*entity.Session, error)
	Profile(ctx context.Context, session *entity.Session, userID string) (*entity.User, error)
	UpdateBankDetails(ctx context.Context, session *entity.Session, userID string, bank entity.BankDetails) (*entity.User, error)
	ListUsers(ctx context.Context, session *entity.Session) ([]*entity.User, error)
	// IsAdmin applies the policy to a stored user.
	IsAdmin(user *entity.User) bool
}

type authUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	policy      AuthPolicy
	hashCost    int
	now         func() time.Time
	logger      *zap.Logger
}

// NewAuthenticator creates a new Authenticator use case.
func NewAuthenticator(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, policy AuthPolicy, logger *zap.Logger) Authenticator {
	policy.AdminEmail = normalizeEmail(policy.AdminEmail)
	return &authUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		policy:      policy,
		hashCost:    bcrypt.DefaultCost,
		now:         time.Now,
		logger:      logger,
	}
}

func normalizeEmail(email string) string {
	return strings.Trim(strings.ToLower(email), " \t\n")
}

func (uc *authUseCase) checkEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if email == uc.policy.AdminEmail {
		return nil
	}
	for _, domain := range uc.policy.AllowedDomains {
		if strings.HasSuffix(email, "@"+domain) {
			return nil
		}
	}
	return emailNotAllowed(uc.policy.AllowedDomains)
}

func (uc *authUseCase) IsAdmin(user *entity.User) bool {
	return user.IsAdmin || normalizeEmail(user.Email) == uc.policy.AdminEmail
}

func (uc *authUseCase) Register(ctx context.Context, email, password string) (*entity.User, *entity.Session, error) {
	email = normalizeEmail(email)
	if err := uc.checkEmail(email); err != nil {
		return nil, nil, err
	}
	if password == "" {
		return nil, nil, &ValidationError{Field: "password", Message: "password is required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, nil, &ValidationError{Field: "password", Message: "password is too long"}
		}
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      email == uc.policy.AdminEmail,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("failed to create user %s: %w", email, err)
	}

	session, err := uc.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, session, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.User, *entity.Session, error) {
	email = normalizeEmail(email)
	if err := uc.checkEmail(email); err != nil {
		return nil, nil, err
	}

	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user %s: %w", email, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := uc.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	uc.logger.Info("user logged in", zap.String("user_id", user.ID))
	return user, session, nil
}

func (uc *authUseCase) startSession(ctx context.Context, user *entity.User) (*entity.Session, error) {
	session := &entity.Session{
		Token:     strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", ""),
		UserID:    user.ID,
		Email:     user.Email,
		IsAdmin:   uc.IsAdmin(user),
		ExpiresAt: uc.now().Add(uc.policy.SessionTTL),
	}
	if err := uc.sessionRepo.Save(ctx, session, uc.policy.SessionTTL); err != nil {
		return nil, fmt.Errorf("failed to save session for user %s: %w", user.ID, err)
	}
	return session, nil
}

func (uc *authUseCase) Logout(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return ErrUnauthenticated
	}
	if err := uc.sessionRepo.Delete(ctx, session.Token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (uc *authUseCase) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	session, err := uc.sessionRepo.Find(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.ExpiresAt.IsZero() && uc.now().After(session.ExpiresAt) {
		return nil, ErrUnauthenticated
	}
	return session, nil
}

func (uc *authUseCase) Profile(ctx context.Context, session *entity.Session, userID string) (*entity.User, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	userID, ok := parseID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	if !session.CanAccessUser(userID) {
		return nil, ErrForbidden
	}
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return user, nil
}

func (uc *authUseCase) UpdateBankDetails(ctx context.Context, session *entity.Session, userID string, bank entity.BankDetails) (*entity.User, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	userID, ok := parseID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	if !session.CanAccessUser(userID) {
		return nil, ErrForbidden
	}

	bank = entity.BankDetails{
		BankName:      strings.TrimSpace(bank.BankName),
		AccountOwner:  strings.TrimSpace(bank.AccountOwner),
		AccountNumber: strings.TrimSpace(bank.AccountNumber),
		IFSCCode:      strings.ToUpper(strings.TrimSpace(bank.IFSCCode)),
		UPIID:         strings.TrimSpace(bank.UPIID),
	}
	if err := uc.userRepo.UpdateBankDetails(ctx, userID, bank); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update bank details of user %s: %w", userID, err)
	}
	return uc.Profile(ctx, session, userID)
}

func (uc *authUseCase) ListUsers(ctx context.Context, session *entity.Session) ([]*entity.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
