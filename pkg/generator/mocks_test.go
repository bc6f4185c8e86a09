package generator

import (
	"context"

	"google.golang.org/genai"
)

// --- Mocks ---

// mockAIClient は ContentGenerator のテスト用モックなのだ。
type mockAIClient struct {
	calls       int
	lastModel   string
	lastContent []*genai.Content
	lastConfig  *genai.GenerateContentConfig

	generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockAIClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastModel = model
	m.lastContent = contents
	m.lastConfig = config
	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, contents, config)
	}
	return imageResponse("image/png", []byte("fake")), nil
}

// imageResponse は画像パーツを1つだけ含むレスポンスを組み立てるのだ。
func imageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return responseWithParts(&genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}})
}

func responseWithParts(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: parts},
		}},
	}
}
