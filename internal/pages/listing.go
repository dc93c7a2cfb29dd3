package pages

import (
	"context"
	"io/fs"

	"civiclink/internal/officials"
	"civiclink/internal/render"
	"civiclink/pkg/requestcontext"
)

// Listing loads the officials listing page.
type Listing struct {
	deps
	pages     fs.FS
	directory Directory
}

// NewListing creates the listing orchestrator.
func NewListing(pages fs.FS, directory Directory, opts ...Option) *Listing {
	return &Listing{deps: newDeps(opts), pages: pages, directory: directory}
}

// Load builds a fresh listing document. Backend failures are logged and the
// page is returned in its pre-load state; only broken markup is an error.
func (l *Listing) Load(ctx context.Context) (*render.Document, error) {
	ctrl, err := l.loadDocument(l.pages, ListingPage, render.SelMinisterTemplate)
	if err != nil {
		return nil, err
	}
	doc := ctrl.Document()

	records, err := l.directory.ListAll(ctx)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to load officials",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return doc, nil
	}

	views, err := officials.NormalizeAll(officials.FromRESTRecords(records))
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to normalize officials",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return doc, nil
	}

	if err := ctrl.RenderList(views); err != nil {
		return doc, nil
	}
	l.logger.DebugContext(ctx, "listing rendered",
		"request_id", requestcontext.RequestID(ctx),
		"officials", len(views),
	)
	return doc, nil
}

// Views returns the canonical listing without rendering it.
func (l *Listing) Views(ctx context.Context) (officials.ResultSet, error) {
	records, err := l.directory.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return officials.NormalizeAll(officials.FromRESTRecords(records))
}
