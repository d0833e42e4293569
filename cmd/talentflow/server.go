package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/Vikas-Kain/TalentFlow/internal/api"
	"github.com/Vikas-Kain/TalentFlow/internal/config"
	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
	"github.com/Vikas-Kain/TalentFlow/internal/remote"
	"github.com/Vikas-Kain/TalentFlow/internal/seed"
	"github.com/Vikas-Kain/TalentFlow/internal/storage"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the TalentFlow API server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running TalentFlow server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status and record counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the hiring pipeline as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP()
	},
}

// pidFile records the server's process id under the data directory.
type pidFile string

func pidFileIn(dataDir string) pidFile {
	return pidFile(filepath.Join(dataDir, "talentflow.pid"))
}

func (p pidFile) write() error {
	if err := os.MkdirAll(filepath.Dir(string(p)), 0o755); err != nil {
		return err
	}
	return os.WriteFile(string(p), strconv.AppendInt(nil, int64(os.Getpid()), 10), 0o644)
}

func (p pidFile) read() (int, error) {
	raw, err := os.ReadFile(string(p))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", p, err)
	}
	return pid, nil
}

func (p pidFile) remove() { _ = os.Remove(string(p)) }

// setupLogging installs a text handler on stderr. Unknown levels mean info.
func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func openStore(dataDir string) (*storage.Store, func(), error) {
	store, err := storage.Open(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}
	return store, closeFn, nil
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "talentflow version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.Level)

	pid := pidFileIn(cfg.Storage.DataDir)
	if err := ensureNotRunning(cfg, pid); err != nil {
		return err
	}
	if err := pid.write(); err != nil {
		return fmt.Errorf("recording pid: %w", err)
	}
	defer pid.remove()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := seedIfEmpty(ctx, store, cfg); err != nil {
		return err
	}

	sim := api.Simulation{
		LatencyMin:  cfg.Remote.LatencyMin,
		LatencyMax:  cfg.Remote.LatencyMax,
		FailureRate: cfg.Remote.WriteFailureRate,
	}
	slog.Info("network simulation",
		"latency_min", sim.LatencyMin, "latency_max", sim.LatencyMax, "write_failure_rate", sim.FailureRate)

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
		Handler: api.NewAppHandler(api.AppDeps{Store: store, Simulation: sim}),
	}

	return serveUntilDone(ctx, srv)
}

// ensureNotRunning fails when something already answers health checks on
// the configured port.
func ensureNotRunning(cfg config.Config, pid pidFile) error {
	probe := remote.New(fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port), &http.Client{Timeout: 2 * time.Second})
	if probe.Health(context.Background()) != nil {
		return nil
	}
	if n, err := pid.read(); err == nil {
		printWarning("talentflow is already running (PID %d)", n)
		return fmt.Errorf("server already running (PID %d)", n)
	}
	printWarning("talentflow is already running on port %d", cfg.Server.Port)
	return fmt.Errorf("server already running on port %d", cfg.Server.Port)
}

const shutdownGrace = 5 * time.Second

// serveUntilDone runs srv until ctx is cancelled or the listener fails, then
// drains in-flight requests for up to shutdownGrace.
func serveUntilDone(ctx context.Context, srv *http.Server) error {
	failed := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "talentflow listening on %s\n", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return fmt.Errorf("listening on %s: %w", srv.Addr, err)
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(drainCtx)
}

// seedIfEmpty fills a store that has no jobs yet, from the configured
// fixture file or the generator.
func seedIfEmpty(ctx context.Context, store *storage.Store, cfg config.Config) error {
	if !cfg.Seed.OnStart {
		return nil
	}
	page, err := store.ListJobs(hiring.JobQuery{}.Normalize())
	if err != nil {
		return fmt.Errorf("checking for existing data: %w", err)
	}
	if page.Total > 0 {
		return nil
	}
	f, err := loadFixture(cfg.Seed.File, seed.Options{Seed: uint64(time.Now().UnixNano())})
	if err != nil {
		return err
	}
	sum, err := seed.Apply(ctx, store, f, time.Now())
	if err != nil {
		return fmt.Errorf("seeding: %w", err)
	}
	slog.Info("seeded empty store", "created", sum.String())
	return nil
}

func loadFixture(path string, opts seed.Options) (seed.Fixture, error) {
	if path != "" {
		return seed.LoadFixtureFile(path)
	}
	return seed.Generate(opts), nil
}

func runMCP() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	defer closeStore()

	stdio := server.NewStdioServer(api.NewMCPServer(api.MCPDeps{Store: store}))
	slog.Info("serving MCP tools on stdio")
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return errReported
	}

	pid := pidFileIn(cfg.Storage.DataDir)
	n, err := pid.read()
	if err != nil {
		printError("talentflow is not running (no PID file)")
		return errReported
	}
	// FindProcess always succeeds on unix; a stale pid surfaces at Signal.
	proc, _ := os.FindProcess(n)
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		pid.remove()
		printError("could not stop talentflow (PID %d): %v", n, err)
		return errReported
	}

	printSuccess("Sent stop signal to talentflow (PID %d)", n)
	return nil
}

func showStatus(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}
	reportStatus(ctx, cfg, remote.New(cfg.ServerURL(), &http.Client{Timeout: 5 * time.Second}))
	return nil
}

func reportStatus(ctx context.Context, cfg config.Config, client *remote.Client) {
	if err := client.Health(ctx); err != nil {
		printStatus("Server", "stopped")
	} else {
		printStatus("Server", "running at %s", cfg.ServerURL())
		if jobs, err := client.ListJobs(ctx, hiring.JobQuery{PageSize: 1}); err == nil {
			printStatus("Jobs", "%d", jobs.Total)
		}
		if cands, err := client.ListCandidates(ctx, hiring.CandidateQuery{PageSize: 1}); err == nil {
			printStatus("Candidates", "%d", cands.Total)
		}
	}
	printStatus("Latency", "%s to %s", cfg.Remote.LatencyMin, cfg.Remote.LatencyMax)
	printStatus("Write failures", "%.1f%%", cfg.Remote.WriteFailureRate*100)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
}
