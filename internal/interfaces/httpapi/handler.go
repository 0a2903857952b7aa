package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/pingpong-club/internal/domain/account"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

const maxRequestBody = 1 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the use cases served over HTTP.
type Services struct {
	Accounts    *usecase.AccountService
	Players     *usecase.PlayerService
	Ranking     *usecase.RankingService
	Matches     *usecase.MatchService
	Bettings    *usecase.BettingService
	Leagues     *usecase.LeagueService
	Tournaments *usecase.TournamentService
	Partners    *usecase.PartnerService
	Divisions   *usecase.DivisionService
}

type Handler struct {
	accounts    *usecase.AccountService
	players     *usecase.PlayerService
	ranking     *usecase.RankingService
	matches     *usecase.MatchService
	bettings    *usecase.BettingService
	leagues     *usecase.LeagueService
	tournaments *usecase.TournamentService
	partners    *usecase.PartnerService
	divisions   *usecase.DivisionService
	pinger      Pinger
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(services Services, pinger Pinger, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		accounts:    services.Accounts,
		players:     services.Players,
		ranking:     services.Ranking,
		matches:     services.Matches,
		bettings:    services.Bettings,
		leagues:     services.Leagues,
		tournaments: services.Tournaments,
		partners:    services.Partners,
		divisions:   services.Divisions,
		pinger:      pinger,
		logger:      logger,
		validator:   validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	if h.pinger != nil {
		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "error", err)
			writeError(ctx, w, fmt.Errorf("%w: database unreachable", usecase.ErrDependencyUnavailable))
			return
		}
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAndValidate reads a JSON body into dst and runs its struct tags.
func (h *Handler) decodeAndValidate(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// fail logs at Warn for caller mistakes and Error for everything else.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, op+" failed", args...)
	} else {
		h.logger.WarnContext(ctx, op+" failed", args...)
	}
	writeError(ctx, w, err)
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, key)
	}
	return v, nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", usecase.ErrInvalidInput, key)
	}
	return &v, nil
}

func mustPrincipal(ctx context.Context) (account.Principal, error) {
	p, ok := principalFromContext(ctx)
	if !ok {
		return account.Principal{}, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized)
	}
	return p, nil
}

// principalPlayer returns the player bound to the caller.
func principalPlayer(ctx context.Context) (account.Principal, int64, error) {
	p, err := mustPrincipal(ctx)
	if err != nil {
		return p, 0, err
	}
	if p.PlayerID == nil || *p.PlayerID <= 0 {
		return p, 0, fmt.Errorf("%w: account is not linked to a player", usecase.ErrForbidden)
	}
	return p, *p.PlayerID, nil
}
