package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	derrors "github.com/matzehuels/digtower/pkg/errors"
	"github.com/matzehuels/digtower/pkg/observability"
	"github.com/matzehuels/digtower/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown of the preview server.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command, a static preview server for the
// generated site.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve the generated pages for preview",
		Long: `Serve the generated pages for preview.

Without an argument the output directory of the project in the working
directory is served. Run "render" first to populate it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(".")
			if err != nil {
				return err
			}
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			} else {
				opts, err := pipeline.FromConfig(cfg, ".")
				if err != nil {
					return err
				}
				dir = opts.OutputPath()
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			return c.runServe(cmd.Context(), dir, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default \":8080\")")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, dir, addr string) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return derrors.New(derrors.ErrCodeInvalidPath, "%s is not a directory (run \"%s render\" first)", dir, appName)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newSiteRouter(abs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	printSuccess("Serving %s", abs)
	printKeyValue("Address", "http://"+displayAddr(addr)+"/")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	c.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// newSiteRouter serves dir with request reporting and a health endpoint.
func newSiteRouter(dir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(reportRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/*", http.FileServer(http.Dir(dir)))

	return r
}

// reportRequests passes every completed request to the HTTP hooks.
func reportRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
