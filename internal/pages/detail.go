package pages

import (
	"context"
	"io/fs"
	"strings"

	"civiclink/internal/officials"
	"civiclink/internal/render"
	"civiclink/pkg/requestcontext"
)

// Detail loads the single-official page.
type Detail struct {
	deps
	pages     fs.FS
	directory Directory
}

// NewDetail creates the detail orchestrator.
func NewDetail(pages fs.FS, directory Directory, opts ...Option) *Detail {
	return &Detail{deps: newDeps(opts), pages: pages, directory: directory}
}

// Load builds a fresh detail document for id. A missing id is logged and no
// fetch is attempted. Backend failures are logged only.
func (d *Detail) Load(ctx context.Context, id string) (*render.Document, error) {
	ctrl, err := d.loadDocument(d.pages, DetailPage)
	if err != nil {
		return nil, err
	}
	doc := ctrl.Document()

	id = strings.TrimSpace(id)
	if id == "" {
		d.logger.WarnContext(ctx, "no official id in query",
			"request_id", requestcontext.RequestID(ctx),
		)
		return doc, nil
	}

	view, err := d.View(ctx, id)
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to load official",
			"request_id", requestcontext.RequestID(ctx),
			"official_id", id,
			"error", err,
		)
		return doc, nil
	}

	_ = ctrl.RenderDetail(view)
	return doc, nil
}

// View fetches and normalizes one official.
func (d *Detail) View(ctx context.Context, id string) (officials.OfficialView, error) {
	record, err := d.directory.GetByID(ctx, id)
	if err != nil {
		return officials.OfficialView{}, err
	}
	return officials.FromREST(record)
}
