package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// NewGenAIClient は Gemini API バックエンド向けの genai クライアントを作り、
// その Models サービスを ContentGenerator として返します。
// この時点では通信は発生しません。
func NewGenAIClient(ctx context.Context, apiKey string) (ContentGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai クライアントの初期化に失敗しました: %w", err)
	}
	return client.Models, nil
}
