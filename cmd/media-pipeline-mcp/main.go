// media-pipeline-mcp は create_asset ツールを stdio 上の MCP サーバーとして提供します。
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/shouni/gemini-media-pipeline/pkg/config"
	"github.com/shouni/gemini-media-pipeline/pkg/generator"
	"github.com/shouni/gemini-media-pipeline/pkg/pipeline"
	mcpserver "github.com/shouni/gemini-media-pipeline/pkg/server"
	"github.com/shouni/gemini-media-pipeline/pkg/storage"
)

func main() {
	// stdout は MCP のフレームで使うため、ログはすべて stderr へ出す
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(handler))

	if err := run(handler); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func run(handler slog.Handler) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Debug("設定を読み込みました", "config", cfg)

	client, err := generator.NewGenAIClient(ctx, cfg.APIKey)
	if err != nil {
		return err
	}
	gen, err := generator.NewGeminiGenerator(client, cfg.DefaultModel)
	if err != nil {
		return err
	}
	store, err := storage.NewImageStorage(cfg.OutputDir)
	if err != nil {
		return err
	}
	creator, err := pipeline.NewAssetCreator(gen, store, cfg.DefaultModel)
	if err != nil {
		return err
	}
	h, err := mcpserver.NewHandler(creator, cfg.DefaultModel)
	if err != nil {
		return err
	}

	stdio := server.NewStdioServer(mcpserver.NewMCPServer(h))
	stdio.SetErrorLogger(slog.NewLogLogger(handler, slog.LevelError))

	slog.Info("Media Pipeline MCP Server started")
	slog.Info("Default model", "model", cfg.DefaultModel)
	slog.Info("Output directory", "path", store.OutputDir())

	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
