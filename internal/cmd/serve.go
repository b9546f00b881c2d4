package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vintegcorp/vintegcorp/internal/logging"
	"github.com/vintegcorp/vintegcorp/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
}

func run(ctx context.Context, opts *rootOptions) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(c.GetEnv(), c.GetLogLevel())
	logging.SetGlobal(logger)

	displayAppname(c.GetAppName())

	repos, closeStore := openRepos(ctx, c, logger)
	defer closeStore()

	api, err := server.New(c, repos, server.WithLogger(logger))
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: api, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer, logger)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal(ctx):
	}
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server, logger zerolog.Logger) error {
	logger.Info().Msgf("🚀 Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

// waitForStopSignal is closed on SIGINT, SIGTERM or when ctx ends
func waitForStopSignal(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(stop)
		select {
		case <-stop:
		case <-ctx.Done():
		}
	}()
	return done
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
