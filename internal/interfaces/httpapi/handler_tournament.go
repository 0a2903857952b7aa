package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

type generateTournamentRequest struct {
	Title   string   `json:"title" validate:"required,max=100"`
	Players []string `json:"players" validate:"required,min=2,dive,required,max=50"`
}

type tournamentResultsRequest struct {
	Results []tournamentResultItem `json:"results" validate:"required,min=1,dive"`
}

type tournamentResultItem struct {
	MatchID string `json:"match_id" validate:"required"`
	Winner  string `json:"winner" validate:"required,max=50"`
	Score   string `json:"score" validate:"omitempty,max=20"`
}

type tournamentSubmitDTO struct {
	Tournament tournamentDTO `json:"tournament"`
	Recorded   int           `json:"recorded"`
	Queued     int           `json:"queued"`
}

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	items, err := h.tournaments.List(ctx)
	if err != nil {
		h.fail(ctx, w, "list tournaments", err)
		return
	}
	out := make([]tournamentDTO, 0, len(items))
	for _, t := range items {
		out = append(out, tournamentToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournament")
	defer span.End()

	id, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	t, err := h.tournaments.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, "get tournament", err, "tournament_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(t))
}

func (h *Handler) GenerateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateTournament")
	defer span.End()

	var req generateTournamentRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	t, err := h.tournaments.Generate(ctx, req.Title, req.Players)
	if err != nil {
		h.fail(ctx, w, "generate tournament", err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, tournamentToDTO(t))
}

func (h *Handler) SubmitTournamentResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitTournamentResults")
	defer span.End()

	id, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req tournamentResultsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	inputs := make([]usecase.TournamentResultInput, 0, len(req.Results))
	for _, res := range req.Results {
		inputs = append(inputs, usecase.TournamentResultInput{MatchID: res.MatchID, Winner: res.Winner, Score: res.Score})
	}

	result, err := h.tournaments.SubmitResults(ctx, id, inputs)
	if err != nil {
		h.fail(ctx, w, "submit tournament results", err, "tournament_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, tournamentSubmitDTO{
		Tournament: tournamentToDTO(result.Tournament),
		Recorded:   result.Recorded,
		Queued:     result.Queued,
	})
}

func (h *Handler) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTournament")
	defer span.End()

	id, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.tournaments.Delete(ctx, id); err != nil {
		h.fail(ctx, w, "delete tournament", err, "tournament_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"deleted": id})
}
