// Package server は create_asset ツールを Model Context Protocol で公開します。
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shouni/gemini-media-pipeline/pkg/domain"
	"github.com/shouni/gemini-media-pipeline/pkg/pipeline"
)

const (
	Name    = "media-pipeline"
	Version = "1.0.0"

	ToolCreateAsset = "create_asset"
)

// AssetCreator はツール呼び出し1件ぶんの生成と保存を行います。
type AssetCreator interface {
	Create(ctx context.Context, req domain.AssetRequest) (*domain.Asset, error)
}

// Handler は create_asset の呼び出しを処理します。
// 呼び出しは mutex で直列化し、通信と書き込みが終わるまで次を受け付けません。
type Handler struct {
	mu           sync.Mutex
	creator      AssetCreator
	defaultModel domain.Model
}

// NewHandler は依存関係を注入して Handler を初期化します。
func NewHandler(creator AssetCreator, defaultModel domain.Model) (*Handler, error) {
	if creator == nil {
		return nil, fmt.Errorf("creator (AssetCreator) is required")
	}
	if defaultModel == "" {
		defaultModel = domain.DefaultModel
	}
	return &Handler{creator: creator, defaultModel: defaultModel}, nil
}

// NewMCPServer は create_asset ツールを登録した MCP サーバーを返します。
func NewMCPServer(h *Handler) *server.MCPServer {
	s := server.NewMCPServer(Name, Version, server.WithToolCapabilities(false))
	s.AddTool(h.Tool(), h.CreateAsset)
	return s
}

// Tool は create_asset の定義(入力スキーマ)を返します。
func (h *Handler) Tool() mcp.Tool {
	return mcp.NewTool(ToolCreateAsset,
		mcp.WithDescription(fmt.Sprintf(
			"Generate an image using Google Gemini AI. Provide a detailed prompt describing the desired image. "+
				"The image will be saved to disk and the file path returned. Default model: %s", h.defaultModel)),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("Detailed description of the image to generate. Be specific about style, composition, colors, subject matter, and atmosphere for best results."),
		),
		mcp.WithString("outputPath",
			mcp.Description("Optional custom file path for the output. If not provided, a unique filename will be generated in the output directory."),
		),
		mcp.WithString("aspectRatio",
			mcp.Enum(enumValues(domain.AspectRatios)...),
			mcp.Description("Aspect ratio for the generated image. Use 16:9 for hero images/headers, 1:1 for thumbnails/social, 9:16 for mobile/stories. Default: 1:1"),
		),
		mcp.WithString("model",
			mcp.Enum(enumValues(domain.Models)...),
			mcp.Description("Model to use. gemini-3-pro-image-preview for higher quality, gemini-2.5-flash-image for faster generation."),
		),
	)
}

// CreateAsset はツール呼び出しを処理します。
// 失敗はすべて IsError 付きのテキスト結果として返し、サーバー自体は止めません。
func (h *Handler) CreateAsset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error generating image: %v", err)), nil
	}

	args := request.GetArguments()
	outputPath, err := optionalString(args, "outputPath")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error generating image: %v", err)), nil
	}
	aspectRatio, err := optionalString(args, "aspectRatio")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error generating image: %v", err)), nil
	}
	model, err := optionalString(args, "model")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error generating image: %v", err)), nil
	}

	req := domain.AssetRequest{
		Prompt:      prompt,
		OutputPath:  outputPath,
		AspectRatio: domain.AspectRatio(aspectRatio),
		Model:       domain.Model(model),
	}

	asset, err := h.creator.Create(ctx, req)
	if err != nil {
		slog.WarnContext(ctx, "create_asset が失敗しました", "error", err)
		return mcp.NewToolResultError(failureText(err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Image generated successfully!\n\nFile saved to: %s\n\nPrompt: \"%s\"\nAspect ratio: %s\nModel: %s",
		asset.FilePath, asset.Prompt, asset.AspectRatio, asset.Model,
	)), nil
}

// optionalString は任意の文字列引数を取り出します。
// キーがない場合は空文字、文字列以外の値が入っている場合はエラーです。
func optionalString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s, nil
}

// failureText は失敗した段階に応じたメッセージを返します。
func failureText(err error) string {
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		switch stageErr.Stage {
		case pipeline.StageGenerate:
			return fmt.Sprintf("Image generation failed: %v", stageErr.Err)
		case pipeline.StageSave:
			return fmt.Sprintf("Failed to save image: %v", stageErr.Err)
		}
	}
	return fmt.Sprintf("Error generating image: %v", err)
}

func enumValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
