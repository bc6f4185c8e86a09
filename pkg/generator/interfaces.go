package generator

import (
	"context"

	"github.com/shouni/gemini-media-pipeline/pkg/domain"
	"google.golang.org/genai"
)

// ContentGenerator は genai の Models サービスのうち、画像生成で使うメソッドだけを切り出したものです。
// *genai.Models がそのまま満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImageGenerator はパイプライン層が利用する統合窓口です。
type ImageGenerator interface {
	// Generate はプロンプトから画像を1枚生成し、最初に見つかった画像パーツを返します。
	Generate(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
}
