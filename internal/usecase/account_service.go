package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/riskibarqy/pingpong-club/internal/domain/account"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

// TokenIssuer turns principals into bearer tokens and back.
type TokenIssuer interface {
	Issue(principal account.Principal) (token string, expiresAt time.Time, err error)
	Verify(token string) (account.Principal, error)
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Principal account.Principal
}

type ChangePasswordInput struct {
	UserID          int64
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

type CreateAccountInput struct {
	PlayerID int64
	Username string
	Password string
}

type AccountService struct {
	store  Store
	tokens TokenIssuer
	cost   int
	logger *logging.Logger
	now    func() time.Time
}

func NewAccountService(store Store, tokens TokenIssuer, logger *logging.Logger) *AccountService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AccountService{
		store:  store,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
		logger: logger,
		now:    time.Now,
	}
}

// Login verifies the password and issues a token. Unknown usernames and
// wrong passwords fail the same way.
func (s *AccountService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Login")
	defer span.End()

	username = account.NormalizeUsername(username)
	if username == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	user, ok, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		return LoginResult{}, fmt.Errorf("get user %q: %w", username, err)
	}
	if !ok {
		return LoginResult{}, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return LoginResult{}, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
		}
		return LoginResult{}, fmt.Errorf("compare password hash: %w", err)
	}

	principal := user.Principal()
	token, expiresAt, err := s.tokens.Issue(principal)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "admin", user.IsAdmin)
	return LoginResult{Token: token, ExpiresAt: expiresAt, Principal: principal}, nil
}

// Authenticate resolves a bearer token into its principal.
func (s *AccountService) Authenticate(ctx context.Context, token string) (account.Principal, error) {
	_, span := startUsecaseSpan(ctx, "usecase.AccountService.Authenticate")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return account.Principal{}, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}
	principal, err := s.tokens.Verify(token)
	if err != nil {
		return account.Principal{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return principal, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.ChangePassword")
	defer span.End()

	if input.NewPassword != input.ConfirmPassword {
		return fmt.Errorf("%w: new passwords do not match", ErrInvalidInput)
	}
	if err := validatePassword(input.NewPassword); err != nil {
		return err
	}
	user, ok, err := s.store.Users().Get(ctx, input.UserID)
	if err != nil {
		return fmt.Errorf("get user=%d: %w", input.UserID, err)
	}
	if !ok {
		return fmt.Errorf("%w: user=%d", ErrNotFound, input.UserID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", ErrUnauthorized)
	}
	return s.setPassword(ctx, s.store, user, input.NewPassword)
}

// ResetPassword sets a new password for the account bound to playerID.
func (s *AccountService) ResetPassword(ctx context.Context, playerID int64, password string) (account.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.ResetPassword")
	defer span.End()

	if err := validatePassword(password); err != nil {
		return account.User{}, err
	}
	user, ok, err := s.store.Users().GetByPlayer(ctx, playerID)
	if err != nil {
		return account.User{}, fmt.Errorf("get user by player=%d: %w", playerID, err)
	}
	if !ok {
		return account.User{}, fmt.Errorf("%w: no account for player=%d", ErrNotFound, playerID)
	}
	if err := s.setPassword(ctx, s.store, user, password); err != nil {
		return account.User{}, err
	}
	s.logger.InfoContext(ctx, "password reset", "user_id", user.ID, "player_id", playerID)
	return user, nil
}

// CreateAccount binds a new member login to an existing player.
func (s *AccountService) CreateAccount(ctx context.Context, input CreateAccountInput) (account.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.CreateAccount")
	defer span.End()

	username := account.NormalizeUsername(input.Username)
	if username == "" {
		return account.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if err := validatePassword(input.Password); err != nil {
		return account.User{}, err
	}
	hash, err := s.hash(input.Password)
	if err != nil {
		return account.User{}, err
	}

	var user account.User
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		if _, ok, err := repos.Players().Get(ctx, input.PlayerID); err != nil {
			return fmt.Errorf("get player=%d: %w", input.PlayerID, err)
		} else if !ok {
			return fmt.Errorf("%w: player=%d", ErrNotFound, input.PlayerID)
		}
		if _, taken, err := repos.Users().GetByPlayer(ctx, input.PlayerID); err != nil {
			return fmt.Errorf("get user by player=%d: %w", input.PlayerID, err)
		} else if taken {
			return fmt.Errorf("%w: player=%d already has an account", ErrConflict, input.PlayerID)
		}
		if err := ensureUsernameFree(ctx, repos, username); err != nil {
			return err
		}
		playerID := input.PlayerID
		user = account.User{Username: username, PasswordHash: hash, PlayerID: &playerID, CreatedAt: s.now().UTC()}
		if err := repos.Users().Create(ctx, &user); err != nil {
			return fmt.Errorf("create user %q: %w", username, err)
		}
		return nil
	})
	if err != nil {
		return account.User{}, err
	}
	s.logger.InfoContext(ctx, "account created", "user_id", user.ID, "player_id", input.PlayerID)
	return user, nil
}

// CreateAdmin creates an admin login together with its own player record.
func (s *AccountService) CreateAdmin(ctx context.Context, username, password string) (account.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.CreateAdmin")
	defer span.End()

	username = account.NormalizeUsername(username)
	if username == "" {
		return account.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if err := validatePassword(password); err != nil {
		return account.User{}, err
	}
	hash, err := s.hash(password)
	if err != nil {
		return account.User{}, err
	}

	var user account.User
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		if err := ensureUsernameFree(ctx, repos, username); err != nil {
			return err
		}
		if _, taken, err := repos.Players().GetByName(ctx, username); err != nil {
			return fmt.Errorf("get player %q: %w", username, err)
		} else if taken {
			return fmt.Errorf("%w: player %q already exists", ErrConflict, username)
		}
		now := s.now().UTC()
		p := player.New(username, player.GenderMale, player.CohortRegular, player.InitialRanks{}, now)
		p.Rank = player.IntPtr(0)
		if err := repos.Players().Create(ctx, &p); err != nil {
			return fmt.Errorf("create admin player %q: %w", username, err)
		}
		playerID := p.ID
		user = account.User{Username: username, PasswordHash: hash, IsAdmin: true, PlayerID: &playerID, CreatedAt: now}
		if err := repos.Users().Create(ctx, &user); err != nil {
			return fmt.Errorf("create admin user %q: %w", username, err)
		}
		return nil
	})
	if err != nil {
		return account.User{}, err
	}
	s.logger.InfoContext(ctx, "admin account created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *AccountService) setPassword(ctx context.Context, repos Repositories, user account.User, password string) error {
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	updated, err := repos.Users().UpdatePassword(ctx, user.ID, hash)
	if err != nil {
		return fmt.Errorf("update password user=%d: %w", user.ID, err)
	}
	if !updated {
		return fmt.Errorf("%w: user=%d", ErrNotFound, user.ID)
	}
	return nil
}

func (s *AccountService) hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(out), nil
}

func validatePassword(password string) error {
	if len(password) < account.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, account.MinPasswordLength)
	}
	return nil
}

func ensureUsernameFree(ctx context.Context, repos Repositories, username string) error {
	_, taken, err := repos.Users().GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("get user %q: %w", username, err)
	}
	if taken {
		return fmt.Errorf("%w: username %q already exists", ErrConflict, username)
	}
	return nil
}
