package server

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-media-pipeline/pkg/domain"
	"github.com/shouni/gemini-media-pipeline/pkg/pipeline"
)

// mockCreator は AssetCreator のテスト用モックなのだ。
type mockCreator struct {
	calls      int
	lastReq    domain.AssetRequest
	createFunc func(req domain.AssetRequest) (*domain.Asset, error)
}

func (m *mockCreator) Create(ctx context.Context, req domain.AssetRequest) (*domain.Asset, error) {
	m.calls++
	m.lastReq = req
	return m.createFunc(req)
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = ToolCreateAsset
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestHandler_CreateAsset(t *testing.T) {
	ctx := context.Background()

	t.Run("成功: 保存先とプロンプト、解決済みのパラメータを返すのだ", func(t *testing.T) {
		creator := &mockCreator{createFunc: func(req domain.AssetRequest) (*domain.Asset, error) {
			return &domain.Asset{
				FilePath:    "/out/generated-1.png",
				Prompt:      req.Prompt,
				AspectRatio: domain.AspectRatioWide,
				Model:       domain.ModelGemini25FlashImage,
			}, nil
		}}
		h, err := NewHandler(creator, domain.ModelGemini25FlashImage)
		require.NoError(t, err)

		result, err := h.CreateAsset(ctx, callRequest(map[string]any{
			"prompt":      "Hero image for tech startup",
			"aspectRatio": "16:9",
			"outputPath":  "hero.png",
		}))

		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Equal(t, domain.AssetRequest{
			Prompt:      "Hero image for tech startup",
			OutputPath:  "hero.png",
			AspectRatio: domain.AspectRatioWide,
		}, creator.lastReq)
		assert.Equal(t,
			"Image generated successfully!\n\nFile saved to: /out/generated-1.png\n\nPrompt: \"Hero image for tech startup\"\nAspect ratio: 16:9\nModel: gemini-2.5-flash-image",
			resultText(t, result))
	})

	t.Run("promptがない場合はエラー結果を返し生成しないのだ", func(t *testing.T) {
		creator := &mockCreator{}
		h, _ := NewHandler(creator, "")

		result, err := h.CreateAsset(ctx, callRequest(map[string]any{}))

		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "Error generating image")
		assert.Zero(t, creator.calls)
	})

	t.Run("文字列でない任意引数はエラー結果になり生成しないのだ", func(t *testing.T) {
		tests := []struct {
			name string
			args map[string]any
			want string
		}{
			{"縦横比が数値", map[string]any{"prompt": "p", "aspectRatio": 169}, "Error generating image: aspectRatio must be a string"},
			{"モデルが真偽値", map[string]any{"prompt": "p", "model": true}, "Error generating image: model must be a string"},
			{"出力先が数値", map[string]any{"prompt": "p", "outputPath": 42}, "Error generating image: outputPath must be a string"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				creator := &mockCreator{}
				h, _ := NewHandler(creator, "")

				result, err := h.CreateAsset(ctx, callRequest(tt.args))

				require.NoError(t, err)
				assert.True(t, result.IsError)
				assert.Equal(t, tt.want, resultText(t, result))
				assert.Zero(t, creator.calls)
			})
		}
	})

	t.Run("プロンプトは引用符や改行をエスケープせずにそのまま返すのだ", func(t *testing.T) {
		creator := &mockCreator{createFunc: func(req domain.AssetRequest) (*domain.Asset, error) {
			return &domain.Asset{
				FilePath:    "/out/a.png",
				Prompt:      req.Prompt,
				AspectRatio: domain.DefaultAspectRatio,
				Model:       domain.DefaultModel,
			}, nil
		}}
		h, _ := NewHandler(creator, "")

		result, err := h.CreateAsset(ctx, callRequest(map[string]any{"prompt": "a \"neon\" sign\nat night"}))

		require.NoError(t, err)
		assert.Contains(t, resultText(t, result), "Prompt: \"a \"neon\" sign\nat night\"\nAspect ratio: 1:1")
	})

	t.Run("失敗した段階ごとにメッセージが変わるのだ", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want string
		}{
			{
				"検証エラー",
				&pipeline.StageError{Stage: pipeline.StageValidate, Err: domain.ErrInvalidAspectRatio},
				"Error generating image: invalid aspect ratio",
			},
			{
				"生成エラー",
				&pipeline.StageError{Stage: pipeline.StageGenerate, Err: errors.New("no candidates in response")},
				"Image generation failed: no candidates in response",
			},
			{
				"保存エラー",
				&pipeline.StageError{Stage: pipeline.StageSave, Err: errors.New("storage: write file: permission denied")},
				"Failed to save image: storage: write file: permission denied",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				creator := &mockCreator{createFunc: func(req domain.AssetRequest) (*domain.Asset, error) {
					return nil, tt.err
				}}
				h, _ := NewHandler(creator, "")

				result, err := h.CreateAsset(ctx, callRequest(map[string]any{"prompt": "p"}))

				require.NoError(t, err, "failures must not be returned as protocol errors")
				assert.True(t, result.IsError)
				assert.Equal(t, tt.want, resultText(t, result))
			})
		}
	})
}

func TestHandler_Tool(t *testing.T) {
	h, err := NewHandler(&mockCreator{}, domain.ModelGemini3ProImagePreview)
	require.NoError(t, err)

	tool := h.Tool()

	assert.Equal(t, "create_asset", tool.Name)
	assert.Contains(t, tool.Description, "Default model: gemini-3-pro-image-preview")
	assert.Equal(t, []string{"prompt"}, tool.InputSchema.Required)
	for _, key := range []string{"prompt", "outputPath", "aspectRatio", "model"} {
		assert.Contains(t, tool.InputSchema.Properties, key)
	}

	aspect, ok := tool.InputSchema.Properties["aspectRatio"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"1:1", "2:3", "3:2", "3:4", "4:3", "16:9", "9:16"}, aspect["enum"])
}

func TestNewHandler(t *testing.T) {
	_, err := NewHandler(nil, "")
	assert.Error(t, err)
}

func TestNewMCPServer(t *testing.T) {
	h, _ := NewHandler(&mockCreator{}, "")
	assert.NotNil(t, NewMCPServer(h))
}
