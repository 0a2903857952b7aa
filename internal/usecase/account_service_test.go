package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/riskibarqy/pingpong-club/internal/domain/account"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

// fakeTokens issues "token-<user id>" and resolves only tokens it issued.
type fakeTokens struct {
	issued map[string]account.Principal
}

func (f *fakeTokens) Issue(p account.Principal) (string, time.Time, error) {
	if f.issued == nil {
		f.issued = make(map[string]account.Principal)
	}
	token := fmt.Sprintf("token-%d", p.UserID)
	f.issued[token] = p
	return token, wednesday.Add(24 * time.Hour), nil
}

func (f *fakeTokens) Verify(token string) (account.Principal, error) {
	p, ok := f.issued[token]
	if !ok {
		return account.Principal{}, errors.New("token not issued")
	}
	return p, nil
}

func newAccountService(env *testEnv) *usecase.AccountService {
	svc := usecase.NewAccountService(env.store, &fakeTokens{}, logging.NewNop())
	svc.SetHashCost(bcrypt.MinCost)
	return svc
}

func TestAccountService_CreateAccountAndLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	svc := newAccountService(env)

	user, err := svc.CreateAccount(ctx, usecase.CreateAccountInput{PlayerID: kim.ID, Username: " kim ", Password: "pong"})
	require.NoError(t, err)
	require.Equal(t, "kim", user.Username)
	require.False(t, user.IsAdmin)

	_, err = svc.CreateAccount(ctx, usecase.CreateAccountInput{PlayerID: kim.ID, Username: "kim2", Password: "pong"})
	require.ErrorIs(t, err, usecase.ErrConflict)
	_, err = svc.CreateAccount(ctx, usecase.CreateAccountInput{PlayerID: 404, Username: "ghost", Password: "pong"})
	require.ErrorIs(t, err, usecase.ErrNotFound)
	_, err = svc.CreateAccount(ctx, usecase.CreateAccountInput{PlayerID: kim.ID, Username: "kim", Password: "abc"})
	require.ErrorIs(t, err, usecase.ErrInvalidInput)

	_, err = svc.Login(ctx, "kim", "ping")
	require.ErrorIs(t, err, usecase.ErrUnauthorized)
	_, err = svc.Login(ctx, "nobody", "pong")
	require.ErrorIs(t, err, usecase.ErrUnauthorized)

	result, err := svc.Login(ctx, "kim", "pong")
	require.NoError(t, err)
	require.Equal(t, user.ID, result.Principal.UserID)
	require.Equal(t, kim.ID, *result.Principal.PlayerID)

	principal, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	require.Equal(t, "kim", principal.Username)
	_, err = svc.Authenticate(ctx, "forged")
	require.ErrorIs(t, err, usecase.ErrUnauthorized)
}

func TestAccountService_PasswordChanges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	kim := env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	svc := newAccountService(env)
	user, err := svc.CreateAccount(ctx, usecase.CreateAccountInput{PlayerID: kim.ID, Username: "kim", Password: "pong"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, usecase.ChangePasswordInput{UserID: user.ID, CurrentPassword: "pong", NewPassword: "table", ConfirmPassword: "tennis"})
	require.ErrorIs(t, err, usecase.ErrInvalidInput)
	err = svc.ChangePassword(ctx, usecase.ChangePasswordInput{UserID: user.ID, CurrentPassword: "wrong", NewPassword: "table", ConfirmPassword: "table"})
	require.ErrorIs(t, err, usecase.ErrUnauthorized)
	err = svc.ChangePassword(ctx, usecase.ChangePasswordInput{UserID: user.ID, CurrentPassword: "pong", NewPassword: "table", ConfirmPassword: "table"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, "kim", "table")
	require.NoError(t, err)

	_, err = svc.ResetPassword(ctx, kim.ID, "serve")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "kim", "serve")
	require.NoError(t, err)
	_, err = svc.ResetPassword(ctx, 404, "serve")
	require.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestAccountService_CreateAdminOwnsPlayer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, wednesday)
	env.addPlayer(t, "kim", player.GenderMale, player.CohortRegular)
	svc := newAccountService(env)

	_, err := svc.CreateAdmin(ctx, "kim", "secret")
	require.ErrorIs(t, err, usecase.ErrConflict)

	admin, err := svc.CreateAdmin(ctx, "coach", "secret")
	require.NoError(t, err)
	require.True(t, admin.IsAdmin)
	require.NotNil(t, admin.PlayerID)

	p := env.player(t, *admin.PlayerID)
	require.Equal(t, "coach", p.Name)
	require.Equal(t, 0, *p.Rank)

	result, err := svc.Login(ctx, "coach", "secret")
	require.NoError(t, err)
	require.True(t, result.Principal.IsAdmin)
}
