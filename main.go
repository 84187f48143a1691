// Command model.report runs one model-monitoring pass against a pin board and
// serves the resulting dashboard: rolling accuracy/recall tables and charts,
// a JSON API mirroring the page, and the model's own prediction API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harbor-data/model.report/internal/board"
	"github.com/harbor-data/model.report/internal/config"
	"github.com/harbor-data/model.report/internal/dashboard"
	"github.com/harbor-data/model.report/internal/model"
	"github.com/harbor-data/model.report/internal/modelapi"
	"github.com/harbor-data/model.report/internal/monitoring"
	"github.com/harbor-data/model.report/internal/plotfile"
	"github.com/harbor-data/model.report/internal/report"
	"github.com/harbor-data/model.report/internal/timeutil"
)

var (
	configPath = flag.String("config", "", "path to a JSON config file")
	listen     = flag.String("listen", "", "listen address (overrides config)")
	boardPath  = flag.String("board", "", "local sqlite board path (overrides config)")
	boardURL   = flag.String("board-url", "", "remote board URL (overrides config)")
	plotDir    = flag.String("plot-dir", "", "write PNG trend plots here (overrides config)")
	once       = flag.Bool("once", false, "run one report, print it as JSON, and exit")
	devMode    = flag.Bool("dev", false, "seed the board with demo pins before running")
	migrateUp  = flag.Bool("migrate", false, "apply pending board migrations before running")
	migrations = flag.String("migrations", "migrations", "path to board migration files")
)

func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Flags beat file values so a deployment config can be overridden for a
	// one-off local run.
	if *listen != "" {
		cfg.Listen = listen
	}
	if *boardPath != "" {
		cfg.BoardPath = boardPath
		cfg.BoardURL = nil
	}
	if *boardURL != "" {
		cfg.BoardURL = boardURL
		cfg.BoardPath = nil
	}
	if *plotDir != "" {
		cfg.PlotDir = plotDir
	}
	return cfg, cfg.Validate()
}

// openBoard returns the configured resolver, plus the local board handle when
// one is in use (for admin routes and cleanup). The handle is nil for a
// remote board.
func openBoard(ctx context.Context, cfg *config.Config) (board.Resolver, *board.Board, error) {
	if url := cfg.GetBoardURL(); url != "" {
		hb, err := board.NewHTTPBoard(url, nil)
		if err != nil {
			return nil, nil, err
		}
		return hb, nil, nil
	}

	b, err := board.Open(cfg.GetBoardPath())
	if err != nil {
		return nil, nil, err
	}
	if *migrateUp {
		if err := b.MigrateUp(*migrations); err != nil {
			b.Close()
			return nil, nil, err
		}
	}
	if *devMode {
		if err := board.SeedDemo(ctx, b, time.Now()); err != nil {
			b.Close()
			return nil, nil, err
		}
	}
	return b, b, nil
}

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver, localBoard, err := openBoard(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open board: %v", err)
	}
	if localBoard != nil {
		defer localBoard.Close()
	}

	rep, err := report.Run(ctx, cfg, resolver, timeutil.RealClock{})
	if err != nil {
		log.Fatalf("report run failed: %v", err)
	}
	monitoring.Logf("report generated: model %s version %s, %d observations, %d metric rows",
		rep.ModelName, rep.ModelVersion, rep.RecordCount, len(rep.Rows))

	if dir := cfg.GetPlotDir(); dir != "" {
		if _, err := plotfile.WriteTrends(dir, rep.Rows); err != nil {
			log.Fatalf("failed to write trend plots: %v", err)
		}
	}

	if *once {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			log.Fatalf("failed to encode report: %v", err)
		}
		return
	}

	// The prediction API serves the same artifact the report scored.
	modelPayload, modelMeta, err := resolver.Resolve(ctx, cfg.GetModelPin())
	if err != nil {
		log.Fatalf("failed to resolve model pin: %v", err)
	}
	scorer, err := model.Decode(modelPayload)
	if err != nil {
		log.Fatalf("failed to decode model: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", dashboard.NewServer(rep).ServeMux())
	mux.Handle("/model/", http.StripPrefix("/model", modelapi.NewServer(scorer, modelMeta).ServeMux()))
	mux.Handle("/metrics", promhttp.Handler())
	if localBoard != nil {
		if err := localBoard.AttachAdminRoutes(mux); err != nil {
			log.Fatalf("failed to attach admin routes: %v", err)
		}
	}

	server := &http.Server{
		Addr:    cfg.GetListen(),
		Handler: dashboard.LoggingMiddleware(mux),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		go func() {
			monitoring.Logf("dashboard listening on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		monitoring.Logf("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			monitoring.Logf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
	monitoring.Logf("graceful shutdown complete")
}
