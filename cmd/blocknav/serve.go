package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jarredhawkins/blocknav/internal/index"
	"github.com/jarredhawkins/blocknav/internal/lsp"
	"github.com/jarredhawkins/blocknav/internal/parser"
	"github.com/jarredhawkins/blocknav/internal/watcher"
)

var (
	serveRoot  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the LSP server on stdio",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveRoot, "root", "", "workspace root (defaults to current directory)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "keep the workspace index current as files change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rootPath := serveRoot
	if rootPath == "" {
		var err error
		rootPath, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	log.Info().Str("root", rootPath).Msg("blocknav starting")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	registry := parser.NewRegistry()
	parser.RegisterDefaults(registry)

	idx := index.New(rootPath, registry)
	if err := idx.Build(ctx); err != nil {
		return err
	}

	if serveWatch {
		w, err := watcher.New(rootPath, registry.Extensions(), func(changed, removed []string) {
			for _, path := range removed {
				idx.RemoveFile(path)
			}
			for _, path := range changed {
				if err := idx.UpdateFile(path); err != nil {
					log.Warn().Err(err).Str("path", path).Msg("failed to update file")
				}
			}
		})
		if err != nil {
			return err
		}
		defer w.Close()

		if err := w.Start(); err != nil {
			return err
		}
	}

	server := lsp.NewServer(registry)
	if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return err
	}

	log.Info().Msg("blocknav shutdown complete")
	return nil
}
