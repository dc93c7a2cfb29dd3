package pages

import (
	"context"
	"io/fs"
	"sync"

	"golang.org/x/sync/semaphore"

	"civiclink/internal/officials"
	"civiclink/internal/render"
	"civiclink/internal/wallet"
	dErrors "civiclink/pkg/domain-errors"
	"civiclink/pkg/requestcontext"
)

// User-facing alerts on the search page.
const (
	AlertInstallWallet = "Please install a wallet provider!"
	AlertConnectFailed = "Error connecting wallet"
	AlertConnectFirst  = "Please connect wallet first"
	AlertSearchFailed  = "Error searching officials"
)

// Search drives the registry search page. Its document and wallet binding
// live for the whole process.
type Search struct {
	deps
	ctrl        *render.Controller
	wallet      Wallet
	newSearcher SearcherFactory

	connecting *semaphore.Weighted
	searching  *semaphore.Weighted

	mu       sync.RWMutex
	searcher Searcher
}

// NewSearch loads the search page and binds it to a wallet session.
func NewSearch(pages fs.FS, w Wallet, newSearcher SearcherFactory, opts ...Option) (*Search, error) {
	d := newDeps(opts)
	ctrl, err := d.loadDocument(pages, SearchPage)
	if err != nil {
		return nil, err
	}
	return &Search{
		deps:        d,
		ctrl:        ctrl,
		wallet:      w,
		newSearcher: newSearcher,
		connecting:  semaphore.NewWeighted(1),
		searching:   semaphore.NewWeighted(1),
	}, nil
}

// Document returns the live search page.
func (s *Search) Document() *render.Document {
	return s.ctrl.Document()
}

// Connected reports whether a searcher has been bound.
func (s *Search) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searcher != nil
}

// Connect runs the wallet handshake and binds a registry searcher to the
// resulting signer. Failures are surfaced as an alert on the page.
func (s *Search) Connect(ctx context.Context) error {
	if !s.connecting.TryAcquire(1) {
		return s.reject(ctx, "connect")
	}
	defer s.connecting.Release(1)

	account, err := s.wallet.Connect(ctx)
	if err != nil {
		msg := AlertConnectFailed
		if dErrors.HasCode(err, dErrors.CodeProviderMissing) {
			msg = AlertInstallWallet
		}
		s.fail(ctx, "wallet connect failed", msg, err)
		return err
	}

	signer, err := s.wallet.Signer()
	if err != nil {
		s.fail(ctx, "wallet signer unavailable", AlertConnectFailed, err)
		return err
	}

	searcher := s.newSearcher(signer)
	s.mu.Lock()
	s.searcher = searcher
	s.mu.Unlock()

	_ = s.ctrl.SetLabel(wallet.ShortAddress(account))
	_ = s.ctrl.ShowAlert("")
	return nil
}

// Search queries the registry for term and replaces the results container.
// Before a successful connect it prompts the user to connect and issues no
// contract call.
func (s *Search) Search(ctx context.Context, term string) error {
	if !s.searching.TryAcquire(1) {
		return s.reject(ctx, "search")
	}
	defer s.searching.Release(1)

	s.mu.RLock()
	searcher := s.searcher
	s.mu.RUnlock()

	_ = s.ctrl.SetSearchTerm(term)
	if searcher == nil {
		err := dErrors.New(dErrors.CodeNotInitialized, "search before wallet connect")
		s.fail(ctx, "search rejected", AlertConnectFirst, err)
		return err
	}

	records, err := searcher.SearchOfficials(ctx, term)
	if err != nil {
		s.fail(ctx, "registry search failed", AlertSearchFailed, err)
		return err
	}

	views, err := officials.NormalizeAll(officials.FromContractRecords(records))
	if err != nil {
		s.fail(ctx, "registry returned malformed records", AlertSearchFailed, err)
		return err
	}

	if err := s.ctrl.RenderResults(views); err != nil {
		s.fail(ctx, "render search results failed", AlertSearchFailed, err)
		return err
	}
	_ = s.ctrl.ShowAlert("")
	s.logger.InfoContext(ctx, "registry search rendered",
		"request_id", requestcontext.RequestID(ctx),
		"results", len(views),
	)
	return nil
}

func (s *Search) fail(ctx context.Context, logMsg, alert string, err error) {
	s.logger.ErrorContext(ctx, logMsg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	_ = s.ctrl.ShowAlert(alert)
}

func (s *Search) reject(ctx context.Context, action string) error {
	s.metrics.IncrementGuardRejection(action)
	s.logger.WarnContext(ctx, "ignoring re-entrant action",
		"request_id", requestcontext.RequestID(ctx),
		"action", action,
	)
	return ErrActionInFlight
}
