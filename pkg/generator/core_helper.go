package generator

import (
	"github.com/shouni/gemini-media-pipeline/pkg/domain"
	"google.golang.org/genai"
)

// buildConfig はテキストと画像の両方を要求する生成設定を作ります。
// 縦横比の指定がなければ ImageConfig 自体を付けません。
func buildConfig(aspectRatio domain.AspectRatio) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{
			string(genai.ModalityText),
			string(genai.ModalityImage),
		},
	}
	if aspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: string(aspectRatio)}
	}
	return cfg
}

// parseToResponse は Gemini のレスポンスから最初の画像パーツを取り出します。
// 先頭の候補だけを見て、パーツを順に走査し最初に見つかった InlineData を採用します。
// 2つ目以降の画像や候補は無視します。
func parseToResponse(resp *genai.GenerateContentResponse) (*domain.ImageResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, ErrNoCandidates
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, ErrNoContentParts
	}

	for _, part := range candidate.Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		// 最初の InlineData で打ち切る。中身が空なら後続は見ない
		if len(part.InlineData.Data) == 0 {
			return nil, ErrNoImageData
		}
		mimeType := part.InlineData.MIMEType
		if mimeType == "" {
			mimeType = DefaultMimeType
		}
		return &domain.ImageResponse{
			Data:     part.InlineData.Data,
			MimeType: mimeType,
		}, nil
	}

	return nil, ErrNoImageData
}
