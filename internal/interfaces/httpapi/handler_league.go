package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pingpong-club/internal/domain/league"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

type createLeagueRequest struct {
	Players []string `json:"players" validate:"required,len=5,dive,required,max=50"`
}

type leagueMatchRequest struct {
	// Me is honoured for admins only; members always play as themselves.
	Me       string `json:"me" validate:"omitempty,max=50"`
	Opponent string `json:"opponent" validate:"required,max=50"`
	Winner   string `json:"winner" validate:"required,max=50"`
	Score    string `json:"score" validate:"required,max=20"`
}

type leagueRevertRequest struct {
	Winner string `json:"winner" validate:"required"`
	Loser  string `json:"loser" validate:"required"`
}

type leagueCellsRequest struct {
	Cells []leagueCellItem `json:"cells" validate:"dive"`
}

type leagueCellItem struct {
	Winner int `json:"winner" validate:"gte=0,lt=5"`
	Loser  int `json:"loser" validate:"gte=0,lt=5,nefield=Winner"`
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	items, err := h.leagues.List(ctx)
	if err != nil {
		h.fail(ctx, w, "list leagues", err)
		return
	}
	out := make([]leagueDTO, 0, len(items))
	for _, l := range items {
		out = append(out, leagueToDTO(l))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	id, err := pathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	principal, err := mustPrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	viewer := ""
	if principal.PlayerID != nil {
		if name, err := h.callerName(ctx); err == nil {
			viewer = name
		}
	}

	detail, err := h.leagues.Detail(ctx, id, viewer, principal.IsAdmin)
	if err != nil {
		h.fail(ctx, w, "get league", err, "league_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, leagueDetailDTO{
		League:    leagueToDTO(detail.League),
		Standings: detail.Standings,
		Fixtures:  detail.Fixtures,
		History:   detail.History,
	})
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	var req createLeagueRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	created, err := h.leagues.Create(ctx, req.Players)
	if err != nil {
		h.fail(ctx, w, "create league", err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, leagueToDTO(created))
}

func (h *Handler) SubmitLeagueMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitLeagueMatch")
	defer span.End()

	id, err := pathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req leagueMatchRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	principal, err := mustPrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !principal.IsAdmin || req.Me == "" {
		me, err := h.callerName(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		req.Me = me
	}

	created, err := h.leagues.SubmitMatch(ctx, usecase.SubmitLeagueMatchInput{
		LeagueID: id,
		Me:       req.Me,
		Opponent: req.Opponent,
		Winner:   req.Winner,
		Score:    req.Score,
	})
	if err != nil {
		h.fail(ctx, w, "submit league match", err, "league_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(created))
}

func (h *Handler) RevertLeagueResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RevertLeagueResult")
	defer span.End()

	id, err := pathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req leagueRevertRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.leagues.Revert(ctx, id, req.Winner, req.Loser); err != nil {
		h.fail(ctx, w, "revert league result", err, "league_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"reverted": true})
}

func (h *Handler) SetLeagueCells(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetLeagueCells")
	defer span.End()

	id, err := pathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req leagueCellsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	cells := make([]league.Cell, 0, len(req.Cells))
	for _, c := range req.Cells {
		cells = append(cells, league.Cell{Winner: c.Winner, Loser: c.Loser})
	}

	updated, err := h.leagues.SetCells(ctx, id, cells)
	if err != nil {
		h.fail(ctx, w, "set league cells", err, "league_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(updated))
}

func (h *Handler) DeleteLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteLeague")
	defer span.End()

	id, err := pathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.leagues.Delete(ctx, id); err != nil {
		h.fail(ctx, w, "delete league", err, "league_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"deleted": id})
}
