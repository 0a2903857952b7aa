package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/pingpong-club/internal/app"
	"github.com/riskibarqy/pingpong-club/internal/config"
	"github.com/riskibarqy/pingpong-club/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pingpong-club/internal/interfaces/httpapi"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret: "test-secret",
		JWTIssuer: "pingpong-club",
		JWTTTL:    time.Hour,
		Club: config.ClubConfig{
			TimeZone:           time.UTC,
			MatchBonusWeekday:  time.Sunday,
			BettingDayWeekday:  time.Friday,
			InitialRankMale:    4,
			InitialRankFemale:  6,
			InitialRankFresher: 8,
			WorkerPoolSize:     2,
		},
	}
}

func runClubctl(t *testing.T, store usecase.Store, args ...string) (string, error) {
	t.Helper()

	closed := false
	services := app.NewServices(testConfig(), store, nil, nil, logging.NewNop())
	root := newRootCmd(func(context.Context) (httpapi.Services, func() error, error) {
		return services, func() error { closed = true; return nil }, nil
	}, logging.NewNop())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if !closed && err == nil {
		t.Fatalf("expected services to be closed")
	}
	return out.String(), err
}

func TestCreateAdmin_CanLogIn(t *testing.T) {
	store := memory.NewStore()
	if _, err := runClubctl(t, store, "create-admin", "--username", "captain", "--password", "paddle-1234"); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	services := app.NewServices(testConfig(), store, nil, nil, logging.NewNop())
	result, err := services.Accounts.Login(context.Background(), "captain", "paddle-1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !result.Principal.IsAdmin {
		t.Fatalf("expected admin principal, got %+v", result.Principal)
	}
}

func TestCreateAdmin_RequiresCredentials(t *testing.T) {
	t.Setenv("CLUBCTL_ADMIN_PASSWORD", "")
	_, err := runClubctl(t, memory.NewStore(), "create-admin", "--username", "captain")
	if err == nil {
		t.Fatalf("expected missing password error")
	}
}

func TestDivisionsUpdate_EmptyClubIsRejected(t *testing.T) {
	_, err := runClubctl(t, memory.NewStore(), "divisions", "update")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestRecomputeAndRebuild_OnEmptyStore(t *testing.T) {
	store := memory.NewStore()
	if _, err := runClubctl(t, store, "recompute-ranks"); err != nil {
		t.Fatalf("recompute ranks: %v", err)
	}
	if _, err := runClubctl(t, store, "rebuild-stats"); err != nil {
		t.Fatalf("rebuild stats: %v", err)
	}
}
