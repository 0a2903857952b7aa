package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/ranking"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

type registerPlayersRequest struct {
	Players []registerPlayerItem `json:"players" validate:"required,min=1,dive"`
}

type registerPlayerItem struct {
	Name     string `json:"name" validate:"required,max=50"`
	Gender   string `json:"gender" validate:"required"`
	Freshman string `json:"freshman" validate:"required"`
}

type idsRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

type setPointsRequest struct {
	Achieve *int `json:"achieve"`
	Betting *int `json:"betting"`
}

type addPointsRequest struct {
	IDs          []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
	AchieveDelta int     `json:"achieve_delta"`
	BettingDelta int     `json:"betting_delta"`
}

type assignmentsRequest struct {
	Items []assignmentItem `json:"items" validate:"required,min=1,dive"`
}

type assignmentItem struct {
	PlayerID int64 `json:"player_id" validate:"required,gt=0"`
	Rank     *int  `json:"rank" validate:"omitempty,gte=0"`
	Achieve  *int  `json:"achieve"`
	Betting  *int  `json:"betting"`
}

type setRankRequest struct {
	Rank int `json:"rank" validate:"gte=0"`
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	minMatches, err := queryInt(r, "min_matches", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	all, err := queryBool(r, "all")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	filter := player.ListFilter{
		ValidOnly:   all == nil || !*all,
		MinMatches:  minMatches,
		NamePrefix:  strings.TrimSpace(r.URL.Query().Get("prefix")),
		OrderByRate: r.URL.Query().Get("order") == "rate",
	}

	players, err := h.players.List(ctx, filter)
	if err != nil {
		h.fail(ctx, w, "list players", err)
		return
	}
	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	id, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	detail, err := h.players.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, "get player", err, "player_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, playerDetailToDTO(detail))
}

func (h *Handler) RegisterPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterPlayers")
	defer span.End()

	var req registerPlayersRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	inputs := make([]usecase.RegisterPlayerInput, 0, len(req.Players))
	for _, p := range req.Players {
		inputs = append(inputs, usecase.RegisterPlayerInput{Name: p.Name, Gender: p.Gender, Freshman: p.Freshman})
	}

	created, err := h.players.Register(ctx, inputs)
	if err != nil {
		h.fail(ctx, w, "register players", err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, map[string]int{"created": created})
}

func (h *Handler) TogglePlayerValidity(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TogglePlayerValidity")
	defer span.End()

	var req idsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	toggled, err := h.players.ToggleValidity(ctx, req.IDs)
	if err != nil {
		h.fail(ctx, w, "toggle validity", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int{"toggled": toggled})
}

func (h *Handler) PurgePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PurgePlayer")
	defer span.End()

	id, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.players.Purge(ctx, id); err != nil {
		h.fail(ctx, w, "purge player", err, "player_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"deleted": id})
}

func (h *Handler) SetPlayerPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPlayerPoints")
	defer span.End()

	id, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req setPointsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Achieve == nil && req.Betting == nil {
		writeError(ctx, w, fmt.Errorf("%w: achieve or betting is required", usecase.ErrInvalidInput))
		return
	}

	updated, err := h.players.SetPoints(ctx, id, req.Achieve, req.Betting)
	if err != nil {
		h.fail(ctx, w, "set points", err, "player_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) AddPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPoints")
	defer span.End()

	var req addPointsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	updated, err := h.players.AddPoints(ctx, req.IDs, req.AchieveDelta, req.BettingDelta)
	if err != nil {
		h.fail(ctx, w, "add points", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int{"updated": updated})
}

func (h *Handler) SaveAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveAssignments")
	defer span.End()

	var req assignmentsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	items := make([]usecase.PointAssignment, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.PointAssignment{PlayerID: it.PlayerID, Rank: it.Rank, Achieve: it.Achieve, Betting: it.Betting})
	}

	saved, err := h.players.SaveAssignments(ctx, items)
	if err != nil {
		h.fail(ctx, w, "save assignments", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int{"saved": saved})
}

func (h *Handler) SetPlayerRank(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPlayerRank")
	defer span.End()

	id, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req setRankRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	updated, err := h.players.SetRank(ctx, id, req.Rank)
	if err != nil {
		h.fail(ctx, w, "set rank", err, "player_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) RecomputeRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeRankings")
	defer span.End()

	if err := h.ranking.RecomputeAll(ctx); err != nil {
		h.fail(ctx, w, "recompute rankings", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"recomputed": true})
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Leaderboard")
	defer span.End()

	category, err := ranking.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.players.Leaderboard(ctx, category, limit)
	if err != nil {
		h.fail(ctx, w, "leaderboard", err, "category", category.String())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(usecase.Leaderboard{Category: category, Entries: entries}))
}

func (h *Handler) LeaderboardSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaderboardSummary")
	defer span.End()

	var viewerID int64
	if p, ok := principalFromContext(ctx); ok && p.PlayerID != nil {
		viewerID = *p.PlayerID
	}
	boards, err := h.players.Summary(ctx, viewerID)
	if err != nil {
		h.fail(ctx, w, "leaderboard summary", err)
		return
	}
	items := make([]leaderboardDTO, 0, len(boards))
	for _, b := range boards {
		items = append(items, leaderboardToDTO(b))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
