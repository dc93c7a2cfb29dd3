package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"civiclink/internal/contract"
	"civiclink/internal/directory"
	"civiclink/internal/pages"
	"civiclink/internal/platform/config"
	"civiclink/internal/platform/httpserver"
	"civiclink/internal/platform/logger"
	"civiclink/internal/platform/metrics"
	"civiclink/internal/platform/middleware"
	"civiclink/internal/wallet"
	"civiclink/pkg/platform/circuit"
	"civiclink/pkg/platform/middleware/metadata"
	"civiclink/web"
)

// main wires the backends, the page orchestrators and the HTTP router, then
// runs the server until SIGINT or SIGTERM.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	m := metrics.New()

	provider, closeProvider, err := buildProvider(ctx, cfg.Wallet, log)
	if err != nil {
		return err
	}
	defer closeProvider()

	session := wallet.NewSession(provider, wallet.WithLogger(log), wallet.WithMetrics(m))
	contractAddr := common.HexToAddress(cfg.Contract.Address)
	newSearcher := func(signer *wallet.Signer) pages.Searcher {
		return contract.New(signer,
			contract.WithAddress(contractAddr),
			contract.WithLogger(log),
			contract.WithMetrics(m),
		)
	}

	dir := directory.New(cfg.Directory.BaseURL, cfg.Directory.Timeout,
		directory.WithLogger(log),
		directory.WithMetrics(m),
		directory.WithBreaker(circuit.New("directory",
			circuit.WithFailureThreshold(cfg.Directory.BreakerFailures),
			circuit.WithCooldown(cfg.Directory.BreakerCooldown),
		)),
	)

	var markup fs.FS = web.Pages
	if cfg.PagesDir != "" {
		markup = os.DirFS(cfg.PagesDir)
	}

	opts := []pages.Option{pages.WithLogger(log), pages.WithMetrics(m)}
	listing := pages.NewListing(markup, dir, opts...)
	detail := pages.NewDetail(markup, dir, opts...)
	search, err := pages.NewSearch(markup, session, newSearcher, opts...)
	if err != nil {
		return fmt.Errorf("load search page: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(log, m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	if cfg.PagesDir != "" {
		r.Handle("/images/*", http.FileServer(http.Dir(cfg.PagesDir)))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		pages.NewHandler(listing, detail, search, log, cfg.RequestTimeout).Register(r)
		pages.NewAPIHandler(listing, detail, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, r, cfg.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting civiclink", "addr", cfg.Addr, "wallet_provider", providerName(provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// buildProvider picks the wallet provider: an RPC wallet endpoint first,
// then a local keystore. With neither configured the session has no provider
// and connect reports it as missing.
func buildProvider(ctx context.Context, cfg config.Wallet, log *slog.Logger) (wallet.Provider, func(), error) {
	switch {
	case cfg.RPCURL != "":
		p, err := wallet.DialRPC(ctx, cfg.RPCURL)
		if err != nil {
			return nil, nil, fmt.Errorf("dial wallet rpc: %w", err)
		}
		return p, p.Close, nil
	case cfg.KeystoreDir != "":
		chain, err := ethclient.DialContext(ctx, cfg.ChainRPCURL)
		if err != nil {
			return nil, nil, fmt.Errorf("dial chain rpc: %w", err)
		}
		ks := wallet.OpenKeystore(cfg.KeystoreDir)
		return wallet.NewKeystoreProvider(ks, chain, wallet.TerminalPassword), chain.Close, nil
	default:
		log.Warn("no wallet provider configured; search is unavailable")
		return nil, func() {}, nil
	}
}

func providerName(p wallet.Provider) string {
	if p == nil {
		return "none"
	}
	return p.Name()
}
