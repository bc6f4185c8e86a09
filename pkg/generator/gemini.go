package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-media-pipeline/pkg/domain"
	"google.golang.org/genai"
)

// GeminiGenerator は Gemini の generateContent を1回呼び出して画像を1枚得るアダプターです。
// 状態は注入されたクライアントとデフォルトモデルだけで、呼び出し間で何も持ち越しません。
type GeminiGenerator struct {
	aiClient     ContentGenerator
	defaultModel domain.Model
}

// NewGeminiGenerator は GeminiGenerator を初期化します。
func NewGeminiGenerator(aiClient ContentGenerator, defaultModel domain.Model) (*GeminiGenerator, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (ContentGenerator) is required")
	}
	if defaultModel == "" {
		defaultModel = domain.DefaultModel
	}

	return &GeminiGenerator{
		aiClient:     aiClient,
		defaultModel: defaultModel,
	}, nil
}

// DefaultModel はモデル未指定時に使うモデルを返します。
func (g *GeminiGenerator) DefaultModel() domain.Model {
	return g.defaultModel
}

// Generate はプロンプトから画像を生成します。
// リトライはしません。失敗はすべて error として返り、panic はしません。
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	model := req.Model
	if model == "" {
		model = g.defaultModel
	}

	slog.InfoContext(ctx, "Gemini 画像生成をリクエストします", "model", model, "aspect_ratio", req.AspectRatio)
	slog.DebugContext(ctx, "プロンプト", "prompt", req.Prompt)

	resp, err := g.aiClient.GenerateContent(ctx, string(model), genai.Text(req.Prompt), buildConfig(req.AspectRatio))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	out, err := parseToResponse(resp)
	if err != nil {
		slog.WarnContext(ctx, "レスポンスから画像を取り出せませんでした", "model", model, "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "画像を受信しました", "model", model, "mime_type", out.MimeType, "bytes", len(out.Data))
	return out, nil
}
