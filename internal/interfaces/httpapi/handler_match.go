package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

type submitMatchRequest struct {
	Winner string `json:"winner" validate:"required,max=50"`
	Loser  string `json:"loser" validate:"required,max=50"`
	Score  string `json:"score" validate:"required,max=20"`
}

type submitMatchBatchRequest struct {
	Matches []batchMatchItem `json:"matches" validate:"required,min=1,dive"`
}

// batchMatchItem is not validated per field; the batch skips bad rows.
type batchMatchItem struct {
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
	Score  string `json:"score"`
	League bool   `json:"league"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	approved, err := queryBool(r, "approved")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := queryInt(r, "player_id", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.matches.ListMatches(ctx, match.ListFilter{Approved: approved, PlayerID: int64(playerID), Limit: limit})
	if err != nil {
		h.fail(ctx, w, "list matches", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(items))
}

// SubmitMatch queues a result. Members may only report their own matches.
func (h *Handler) SubmitMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitMatch")
	defer span.End()

	var req submitMatchRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.requireSelfOrAdmin(ctx, req.Winner, req.Loser); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.matches.SubmitDirect(ctx, usecase.SubmitMatchInput{Winner: req.Winner, Loser: req.Loser, Score: req.Score})
	if err != nil {
		h.fail(ctx, w, "submit match", err, "winner", req.Winner, "loser", req.Loser)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(created))
}

func (h *Handler) SubmitMatchBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitMatchBatch")
	defer span.End()

	var req submitMatchBatchRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	items := make([]usecase.BatchMatchInput, 0, len(req.Matches))
	for _, m := range req.Matches {
		items = append(items, usecase.BatchMatchInput{Winner: m.Winner, Loser: m.Loser, Score: m.Score, League: m.League})
	}

	created, err := h.matches.SubmitBatch(ctx, items)
	if err != nil {
		h.fail(ctx, w, "submit match batch", err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, map[string]int{"created": created, "skipped": len(items) - created})
}

func (h *Handler) ApproveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveMatches")
	defer span.End()

	var req idsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	result, err := h.matches.Approve(ctx, req.IDs)
	if err != nil {
		h.fail(ctx, w, "approve matches", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) DeleteMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatches")
	defer span.End()

	var req idsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	result, err := h.matches.Delete(ctx, req.IDs)
	if err != nil {
		h.fail(ctx, w, "delete matches", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RebuildStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RebuildStats")
	defer span.End()

	result, err := h.matches.RebuildStats(ctx)
	if err != nil {
		h.fail(ctx, w, "rebuild stats", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

// callerName resolves the player name bound to the caller.
func (h *Handler) callerName(ctx context.Context) (string, error) {
	_, playerID, err := principalPlayer(ctx)
	if err != nil {
		return "", err
	}
	detail, err := h.players.Get(ctx, playerID)
	if err != nil {
		return "", err
	}
	return detail.Player.Name, nil
}

func (h *Handler) requireSelfOrAdmin(ctx context.Context, names ...string) error {
	principal, err := mustPrincipal(ctx)
	if err != nil {
		return err
	}
	if principal.IsAdmin {
		return nil
	}
	me, err := h.callerName(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if strings.TrimSpace(name) == me {
			return nil
		}
	}
	return fmt.Errorf("%w: members can only report their own matches", usecase.ErrForbidden)
}
