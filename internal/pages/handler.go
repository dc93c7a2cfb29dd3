package pages

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"civiclink/internal/render"
	"civiclink/pkg/platform/httputil"
	"civiclink/pkg/requestcontext"
)

// Handler serves the three pages and their actions.
type Handler struct {
	logger        *slog.Logger
	listing       *Listing
	detail        *Detail
	search        *Search
	actionTimeout time.Duration
}

// NewHandler creates a page Handler. actionTimeout bounds wallet and
// contract round trips started by POST actions; zero means no bound beyond
// the request context.
func NewHandler(listing *Listing, detail *Detail, search *Search, logger *slog.Logger, actionTimeout time.Duration) *Handler {
	return &Handler{
		logger:        logger,
		listing:       listing,
		detail:        detail,
		search:        search,
		actionTimeout: actionTimeout,
	}
}

// Register registers the page routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleListing)
	r.Get("/"+ListingPage, h.handleListing)
	r.Get("/"+DetailPage, h.handleDetail)
	r.Get("/search", h.handleSearchPage)
	r.Post("/search", h.handleSearch)
	r.Post("/search/connect", h.handleConnect)
}

func (h *Handler) handleListing(w http.ResponseWriter, r *http.Request) {
	doc, err := h.listing.Load(r.Context())
	h.writePage(w, r, doc, err)
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	doc, err := h.detail.Load(r.Context(), r.URL.Query().Get("id"))
	h.writePage(w, r, doc, err)
}

func (h *Handler) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, h.search.Document(), nil)
}

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.actionContext(r.Context())
	defer cancel()

	// The outcome is already on the page as a label or an alert.
	_ = h.search.Connect(ctx)
	http.Redirect(w, r, "/search", http.StatusSeeOther)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(r.Context(), "invalid search form",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err.Error(),
		)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.actionContext(r.Context())
	defer cancel()

	_ = h.search.Search(ctx, r.PostForm.Get("term"))
	http.Redirect(w, r, "/search", http.StatusSeeOther)
}

func (h *Handler) actionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.actionTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.actionTimeout)
}

func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, doc *render.Document, err error) {
	ctx := r.Context()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build page",
			"request_id", requestcontext.RequestID(ctx),
			"path", r.URL.Path,
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := httputil.WriteHTML(w, http.StatusOK, doc.Render); err != nil {
		h.logger.WarnContext(ctx, "failed to write page",
			"request_id", requestcontext.RequestID(ctx),
			"path", r.URL.Path,
			"error", err,
		)
	}
}
