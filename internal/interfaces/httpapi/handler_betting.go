package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pingpong-club/internal/domain/betting"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

type createBettingRequest struct {
	P1ID           int64   `json:"p1_id" validate:"required,gt=0"`
	P2ID           int64   `json:"p2_id" validate:"required,gt=0,nefield=P1ID"`
	Point          int     `json:"point" validate:"required,gt=0"`
	ParticipantIDs []int64 `json:"participant_ids" validate:"omitempty,dive,gt=0"`
}

type placeBetRequest struct {
	GuessID int64 `json:"guess_id" validate:"required,gt=0"`
}

type participantIDsRequest struct {
	PlayerIDs []int64 `json:"player_ids" validate:"required,min=1,dive,gt=0"`
}

type updateParticipantsRequest struct {
	Participants []participantItem `json:"participants" validate:"required,min=1,dive"`
}

type participantItem struct {
	PlayerID int64  `json:"player_id" validate:"required,gt=0"`
	WinnerID *int64 `json:"winner_id" validate:"omitempty,gt=0"`
}

type bettingResultRequest struct {
	WinnerName string `json:"winner_name" validate:"required,max=50"`
	Score      string `json:"score" validate:"required,max=20"`
}

func (h *Handler) ListBettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBettings")
	defer span.End()

	approved, err := queryBool(r, "approved")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	submitted, err := queryBool(r, "submitted")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := queryInt(r, "player_id", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.bettings.List(ctx, betting.ListFilter{Approved: approved, Submitted: submitted, PlayerID: int64(playerID)})
	if err != nil {
		h.fail(ctx, w, "list bettings", err)
		return
	}
	out := make([]bettingDTO, 0, len(items))
	for _, b := range items {
		out = append(out, bettingToDTO(b))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetBetting(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBetting")
	defer span.End()

	id, err := pathID(r, "bettingID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	view, err := h.bettings.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, "get betting", err, "betting_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, bettingViewToDTO(view))
}

func (h *Handler) CreateBetting(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBetting")
	defer span.End()

	var req createBettingRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	created, err := h.bettings.Create(ctx, usecase.CreateBettingInput{
		P1ID:           req.P1ID,
		P2ID:           req.P2ID,
		Point:          req.Point,
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		h.fail(ctx, w, "create betting", err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, bettingToDTO(created))
}

func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBet")
	defer span.End()

	bettingID, err := pathID(r, "bettingID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	_, bettorID, err := principalPlayer(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req placeBetRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	placed, err := h.bettings.PlaceBet(ctx, bettorID, bettingID, req.GuessID)
	if err != nil {
		h.fail(ctx, w, "place bet", err, "betting_id", bettingID, "bettor_id", bettorID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, participantToDTO(placed))
}

func (h *Handler) AddBettingParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddBettingParticipants")
	defer span.End()

	bettingID, err := pathID(r, "bettingID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req participantIDsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	added, err := h.bettings.AddParticipants(ctx, bettingID, req.PlayerIDs)
	if err != nil {
		h.fail(ctx, w, "add participants", err, "betting_id", bettingID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int{"added": added})
}

func (h *Handler) RemoveBettingParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveBettingParticipants")
	defer span.End()

	bettingID, err := pathID(r, "bettingID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req participantIDsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	removed, err := h.bettings.RemoveParticipants(ctx, bettingID, req.PlayerIDs)
	if err != nil {
		h.fail(ctx, w, "remove participants", err, "betting_id", bettingID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int{"removed": removed})
}

func (h *Handler) UpdateBettingParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateBettingParticipants")
	defer span.End()

	bettingID, err := pathID(r, "bettingID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req updateParticipantsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	inputs := make([]usecase.ParticipantInput, 0, len(req.Participants))
	for _, p := range req.Participants {
		inputs = append(inputs, usecase.ParticipantInput{PlayerID: p.PlayerID, WinnerID: p.WinnerID})
	}
	if err := h.bettings.UpdateParticipants(ctx, bettingID, inputs); err != nil {
		h.fail(ctx, w, "update participants", err, "betting_id", bettingID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int{"updated": len(inputs)})
}

func (h *Handler) ToggleBettingClose(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleBettingClose")
	defer span.End()

	bettingID, err := pathID(r, "bettingID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	updated, err := h.bettings.ToggleClose(ctx, bettingID)
	if err != nil {
		h.fail(ctx, w, "toggle betting close", err, "betting_id", bettingID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, bettingToDTO(updated))
}

func (h *Handler) SubmitBettingResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitBettingResult")
	defer span.End()

	bettingID, err := pathID(r, "bettingID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req bettingResultRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	preview, err := h.bettings.SubmitResult(ctx, usecase.SubmitBettingResultInput{
		BettingID:  bettingID,
		WinnerName: req.WinnerName,
		Score:      req.Score,
	})
	if err != nil {
		h.fail(ctx, w, "submit betting result", err, "betting_id", bettingID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, preview)
}

func (h *Handler) ApproveBettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveBettings")
	defer span.End()

	var req idsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	result, err := h.bettings.Approve(ctx, req.IDs)
	if err != nil {
		h.fail(ctx, w, "approve bettings", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) DeleteBettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteBettings")
	defer span.End()

	var req idsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	result, err := h.bettings.Delete(ctx, req.IDs)
	if err != nil {
		h.fail(ctx, w, "delete bettings", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}
