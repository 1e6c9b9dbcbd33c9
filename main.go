package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"taskboard/api"
	"taskboard/config"
	"taskboard/storage"
	"taskboard/tui"
)

var (
	cfg       *config.Config
	flagDebug bool
	flagTheme string
	flagCells int
	flagAddr  string
)

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "In-memory task board with three columns",
	Long: `taskboard keeps a board of tasks in To Do, In Progress and Completed
columns for the lifetime of the process.

Run without arguments to open the board in the terminal. Cards can be dragged
with the mouse or moved with the keyboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("debug") {
			cfg.Debug = flagDebug
		}
		return nil
	},
	RunE: runBoard,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board over HTTP",
	Long: `Starts an HTTP server holding one board. Commands are posted as JSON to
/api/commands and every change is pushed to /stream as a server-sent event.`,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&flagTheme, "theme", "", "color theme: light or dark")
	rootCmd.Flags().IntVar(&flagCells, "drag-cells", config.DefaultActivationCells, "pointer travel in cells before a drag starts")
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default from TASKBOARD_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBoard(cmd *cobra.Command, _ []string) error {
	if flagTheme != "" {
		if err := cfg.SetTheme(flagTheme); err != nil {
			return fmt.Errorf("--theme: %w", err)
		}
	}
	if cmd.Flags().Changed("drag-cells") {
		if flagCells < 0 {
			return fmt.Errorf("--drag-cells: must not be negative")
		}
		cfg.ActivationCells = flagCells
	}

	out, closeLog, err := cfg.LogOutput()
	if err != nil {
		return err
	}
	defer closeLog()
	logger := cfg.NewLogger(out)

	store := storage.New(storage.WithLogger(logger))
	model := tui.New(cmd.Context(), store,
		tui.WithLogger(logger),
		tui.WithStyles(tui.NewStyles(tui.ThemeFor(cfg.Theme))),
		tui.WithActivationCells(cfg.ActivationCells),
	)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	logger.Info("board started")
	_, err = p.Run()
	return err
}

func runServe(cmd *cobra.Command, _ []string) error {
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	logger := cfg.NewLogger(os.Stderr)
	store := storage.New(storage.WithLogger(logger))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderContentEncoding},
	}))
	api.Register(e, store, logger, api.WithDeduper(api.NewMemoryDeduper(cfg.DedupeTTL)))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Addr).Info("listening")
		errCh <- e.Start(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("graceful shutdown timed out")
		return e.Close()
	}
	logger.Info("server stopped")
	return nil
}
