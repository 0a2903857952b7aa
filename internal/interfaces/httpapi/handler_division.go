package httpapi

import "net/http"

func (h *Handler) ListDivisionLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDivisionLogs")
	defer span.End()

	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	logs, err := h.divisions.List(ctx, limit)
	if err != nil {
		h.fail(ctx, w, "list division logs", err)
		return
	}
	out := make([]updateLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, updateLogToDTO(l))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetDivisionLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDivisionLog")
	defer span.End()

	id, err := pathID(r, "logID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	log, err := h.divisions.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, "get division log", err, "log_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, updateLogToDTO(log))
}

func (h *Handler) UpdateDivisions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateDivisions")
	defer span.End()

	log, err := h.divisions.Update(ctx)
	if err != nil {
		h.fail(ctx, w, "update divisions", err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, updateLogToDTO(log))
}

func (h *Handler) RevertDivisions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RevertDivisions")
	defer span.End()

	log, err := h.divisions.RevertLatest(ctx)
	if err != nil {
		h.fail(ctx, w, "revert divisions", err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, updateLogToDTO(log))
}

func (h *Handler) DeleteDivisionLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteDivisionLog")
	defer span.End()

	id, err := pathID(r, "logID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.divisions.Delete(ctx, id); err != nil {
		h.fail(ctx, w, "delete division log", err, "log_id", id)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"deleted": id})
}
