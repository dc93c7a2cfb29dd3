package pages

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civiclink/internal/officials"
	dErrors "civiclink/pkg/domain-errors"
	"civiclink/pkg/platform/httputil"
	"civiclink/pkg/requestcontext"
)

// APIHandler exposes the canonical directory views as JSON.
type APIHandler struct {
	logger  *slog.Logger
	listing *Listing
	detail  *Detail
}

// NewAPIHandler creates an APIHandler over the listing and detail orchestrators.
func NewAPIHandler(listing *Listing, detail *Detail, logger *slog.Logger) *APIHandler {
	return &APIHandler{logger: logger, listing: listing, detail: detail}
}

type listResponse struct {
	Data officials.ResultSet `json:"data"`
}

type getResponse struct {
	Data officials.OfficialView `json:"data"`
}

// Register registers the API routes with the chi router.
func (h *APIHandler) Register(r chi.Router) {
	r.Get("/api/v1/officials", h.handleList)
	r.Get("/api/v1/officials/{id}", h.handleGet)
}

func (h *APIHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	views, err := h.listing.Views(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list officials",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if views == nil {
		views = officials.ResultSet{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Data: views})
}

func (h *APIHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.detail.View(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.InfoContext(ctx, "official not found",
				"request_id", requestcontext.RequestID(ctx),
				"official_id", chi.URLParam(r, "id"),
			)
		} else {
			h.logger.ErrorContext(ctx, "failed to get official",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, getResponse{Data: view})
}
