package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API for uploads and questions",
	Long:  `Starts the docqa HTTP server with the document upload, listing, download and delete endpoints, the /query endpoint and the /ws/query websocket.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().Int("port", 0, "port to listen on (default from config)")
	serverCmd.Flags().Bool("allow-all-origins", false, "allow CORS requests from any origin")
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = cfg.Server.Port
	}
	allowAll, _ := cmd.Flags().GetBool("allow-all-origins")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(server.Config{
		Port:     port,
		Version:  Version,
		Timeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		AllowAll: allowAll,
	}, a.ingest, a.composer)

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	count, err := a.index.Count(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not count indexed chunks: %v\n", err)
	}
	fmt.Fprintf(os.Stderr, "docqa server %s starting on port %d\n", Version, port)
	fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.DatabasePath())
	fmt.Fprintf(os.Stderr, "  Index: %s (%d chunks)\n", cfg.Index.Backend, count)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
