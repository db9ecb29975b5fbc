package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/memstore"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		host string
		port int
		demo bool
		seed string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory bookshelf server",
		Long: `Runs a bookshelf server that keeps everything in memory, for trying
shelfboard out or testing against. Data is lost when it stops.

--demo adds a handful of books and a small searchable catalog. --seed loads
the books of an exported snapshot.`,
		Example: `  shelfboard serve --demo
  shelfboard serve --port 9090 --seed shelf.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				cfg.Serve.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Serve.Port = port
			}

			var opts []memstore.Option
			if demo {
				opts = append(opts, memstore.WithCatalog(demoCatalog))
			}
			store := memstore.New(opts...)
			if demo {
				store.Seed(demoBooks()...)
			}
			if seed != "" {
				data, err := os.ReadFile(seed)
				if err != nil {
					return fmt.Errorf("reading seed: %w", err)
				}
				snap, err := catalog.Parse(data)
				if err != nil {
					return fmt.Errorf("seed %s: %w", seed, err)
				}
				store.Restore(snap)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ok("Serving on %s (Ctrl-C to stop)", cfg.Serve.BaseURL())
			return serve(ctx, cfg.Serve.Addr(), store.Handler())
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Listen address")
	cmd.Flags().IntVar(&port, "port", 8080, "Listen port")
	cmd.Flags().BoolVar(&demo, "demo", false, "Start with demo books and a searchable catalog")
	cmd.Flags().StringVar(&seed, "seed", "", "Snapshot YAML (from export) to load books from")
	return cmd
}

// serve runs handler on addr until ctx ends, then drains in-flight requests.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

var demoCatalog = []catalog.Candidate{
	{Title: "Dune", Author: "Frank Herbert", CatalogRef: "OL893415W", ISBN: "9780441013593"},
	{Title: "Dune Messiah", Author: "Frank Herbert", CatalogRef: "OL893526W", ISBN: "9780593098233"},
	{Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", CatalogRef: "OL59863W", ISBN: "9780547773742"},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", CatalogRef: "OL59800W", ISBN: "9780441478125"},
	{Title: "Beloved", Author: "Toni Morrison", CatalogRef: "OL52114W", ISBN: "9781400033416"},
	{Title: "Emma", Author: "Jane Austen", CatalogRef: "OL66562W", ISBN: "9780141439587"},
	{Title: "Pride and Prejudice", Author: "Jane Austen", CatalogRef: "OL66554W", ISBN: "9780141439518"},
	{Title: "The Dispossessed", Author: "Ursula K. Le Guin", CatalogRef: "OL59832W", ISBN: "9780061054884"},
}

func demoBooks() []catalog.Book {
	rating := func(v int) *int { return &v }
	series := "Earthsea"
	index := 1
	return []catalog.Book{
		{Title: "Dune", Author: "Frank Herbert", CatalogRef: "OL893415W", ShelfID: "3", Rating: rating(9)},
		{Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", CatalogRef: "OL59863W", ShelfID: "2", Series: &series, SeriesIndex: &index},
		{Title: "Emma", Author: "Jane Austen", CatalogRef: "OL66562W", ShelfID: "1", Format: catalog.FormatAudiobook},
	}
}
