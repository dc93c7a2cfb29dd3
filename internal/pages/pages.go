// Package pages wires user actions on the listing, detail and search pages
// to the backends and the render controllers.
package pages

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"civiclink/internal/officials"
	"civiclink/internal/platform/metrics"
	"civiclink/internal/render"
	"civiclink/internal/wallet"
)

// Page markup files.
const (
	ListingPage = "index.html"
	DetailPage  = "directory.html"
	SearchPage  = "search.html"
)

// ErrActionInFlight is returned when an action is triggered while the same
// action is still outstanding. The trigger is ignored.
var ErrActionInFlight = errors.New("action already in flight")

// Directory is the REST directory backend.
type Directory interface {
	ListAll(ctx context.Context) ([]officials.RestRecord, error)
	GetByID(ctx context.Context, id string) (officials.RestRecord, error)
}

// Wallet is the signing session.
type Wallet interface {
	Connect(ctx context.Context) (string, error)
	Signer() (*wallet.Signer, error)
}

// Searcher queries the registry contract.
type Searcher interface {
	SearchOfficials(ctx context.Context, term string) ([]officials.ContractRecord, error)
}

// SearcherFactory binds a Searcher to a connected signer.
type SearcherFactory func(signer *wallet.Signer) Searcher

type deps struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an orchestrator.
type Option func(*deps)

func WithLogger(logger *slog.Logger) Option {
	return func(d *deps) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *deps) {
		d.metrics = m
	}
}

func newDeps(opts []Option) deps {
	d := deps{logger: slog.Default()}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// loadDocument parses a page from the markup source and puts a controller
// over it with templates detached.
func (d deps) loadDocument(pages fs.FS, name string, templates ...string) (*render.Controller, error) {
	f, err := pages.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", name, err)
	}
	defer f.Close()

	doc, err := render.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", name, err)
	}
	ctrl, err := render.NewController(doc, templates,
		render.WithLogger(d.logger),
		render.WithMetrics(d.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", name, err)
	}
	return ctrl, nil
}
