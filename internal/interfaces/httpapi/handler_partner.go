package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pingpong-club/internal/domain/partner"
)

type proposePartnersRequest struct {
	Veterans  []string `json:"veterans" validate:"required,min=1,dive,required"`
	Newcomers []string `json:"newcomers" validate:"required,min=1,dive,required"`
}

type savePartnersRequest struct {
	Pairs []partner.Pair `json:"pairs" validate:"required,min=1"`
}

func (h *Handler) ListPartners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPartners")
	defer span.End()

	items, err := h.partners.List(ctx)
	if err != nil {
		h.fail(ctx, w, "list pairings", err)
		return
	}
	out := make([]pairingDTO, 0, len(items))
	for _, p := range items {
		out = append(out, pairingToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ProposePartners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProposePartners")
	defer span.End()

	var req proposePartnersRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	pairs, err := h.partners.Propose(ctx, req.Veterans, req.Newcomers)
	if err != nil {
		h.fail(ctx, w, "propose pairings", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, pairs)
}

func (h *Handler) SavePartners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SavePartners")
	defer span.End()

	var req savePartnersRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	saved, err := h.partners.Save(ctx, req.Pairs)
	if err != nil {
		h.fail(ctx, w, "save pairings", err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, map[string]int{"saved": saved})
}

func (h *Handler) ResetPartners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetPartners")
	defer span.End()

	removed, err := h.partners.Reset(ctx)
	if err != nil {
		h.fail(ctx, w, "reset pairings", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int{"removed": removed})
}
