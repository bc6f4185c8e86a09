// Package pipeline は入力検証・画像生成・保存を順に実行し、両フロントエンドから共通で使われます。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-media-pipeline/pkg/domain"
	"github.com/shouni/gemini-media-pipeline/pkg/generator"
)

// Stage は失敗した処理段階です。
type Stage string

const (
	StageValidate Stage = "validate"
	StageGenerate Stage = "generate"
	StageSave     Stage = "save"
)

// ErrEmptyPrompt はプロンプトが空の場合のエラーです。
var ErrEmptyPrompt = errors.New("prompt is required")

// StageError はどの段階で失敗したかを保持するエラーです。
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ImageSaver は生成画像の保存先です。
type ImageSaver interface {
	SaveBytes(data []byte, customPath, mimeType string) (string, error)
}

// AssetCreator は ImageGenerator と ImageSaver を組み合わせて1件の生成を最後まで行います。
type AssetCreator struct {
	gen          generator.ImageGenerator
	store        ImageSaver
	defaultModel domain.Model
}

// NewAssetCreator は依存関係を注入して AssetCreator を初期化します。
func NewAssetCreator(gen generator.ImageGenerator, store ImageSaver, defaultModel domain.Model) (*AssetCreator, error) {
	if gen == nil {
		return nil, fmt.Errorf("gen (ImageGenerator) is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store (ImageSaver) is required")
	}
	if defaultModel == "" {
		defaultModel = domain.DefaultModel
	}
	return &AssetCreator{gen: gen, store: store, defaultModel: defaultModel}, nil
}

// Create はリクエストを検証し、画像を生成して保存します。
// 生成が完了するまで保存は始まりません。失敗はすべて *StageError で返ります。
func (c *AssetCreator) Create(ctx context.Context, req domain.AssetRequest) (*domain.Asset, error) {
	resolved, err := c.resolve(req)
	if err != nil {
		return nil, &StageError{Stage: StageValidate, Err: err}
	}

	img, err := c.gen.Generate(ctx, domain.ImageGenerationRequest{
		Prompt:      resolved.Prompt,
		AspectRatio: resolved.AspectRatio,
		Model:       resolved.Model,
	})
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}

	filePath, err := c.store.SaveBytes(img.Data, resolved.OutputPath, img.MimeType)
	if err != nil {
		return nil, &StageError{Stage: StageSave, Err: err}
	}

	slog.InfoContext(ctx, "画像を保存しました", "path", filePath, "model", resolved.Model, "aspect_ratio", resolved.AspectRatio)

	return &domain.Asset{
		FilePath:    filePath,
		Prompt:      resolved.Prompt,
		AspectRatio: resolved.AspectRatio,
		Model:       resolved.Model,
	}, nil
}

// resolve は列挙値を検証し、未指定の縦横比とモデルにデフォルトを入れます。
func (c *AssetCreator) resolve(req domain.AssetRequest) (domain.AssetRequest, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return req, ErrEmptyPrompt
	}

	if req.AspectRatio == "" {
		req.AspectRatio = domain.DefaultAspectRatio
	} else if _, err := domain.ParseAspectRatio(string(req.AspectRatio)); err != nil {
		return req, err
	}

	if req.Model == "" {
		req.Model = c.defaultModel
	} else if _, err := domain.ParseModel(string(req.Model)); err != nil {
		return req, err
	}

	return req, nil
}
