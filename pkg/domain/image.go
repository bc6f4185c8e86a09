package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// AspectRatio は生成画像の縦横比の指定です。
type AspectRatio string

const (
	AspectRatioSquare    AspectRatio = "1:1"
	AspectRatioPortrait  AspectRatio = "2:3"
	AspectRatioLandscape AspectRatio = "3:2"
	AspectRatio3x4       AspectRatio = "3:4"
	AspectRatio4x3       AspectRatio = "4:3"
	AspectRatioWide      AspectRatio = "16:9"
	AspectRatioTall      AspectRatio = "9:16"

	DefaultAspectRatio = AspectRatioSquare
)

// AspectRatios は受け付ける縦横比の一覧です。エラーメッセージもこの順で並べます。
var AspectRatios = []AspectRatio{
	AspectRatioSquare,
	AspectRatioPortrait,
	AspectRatioLandscape,
	AspectRatio3x4,
	AspectRatio4x3,
	AspectRatioWide,
	AspectRatioTall,
}

// Model は画像生成に使う Gemini のモデル ID です。
type Model string

const (
	ModelGemini3ProImagePreview Model = "gemini-3-pro-image-preview"
	ModelGemini25FlashImage     Model = "gemini-2.5-flash-image"

	DefaultModel = ModelGemini3ProImagePreview
)

// Models は受け付けるモデルの一覧です。
var Models = []Model{
	ModelGemini3ProImagePreview,
	ModelGemini25FlashImage,
}

var (
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")
	ErrInvalidModel       = errors.New("invalid model")
)

// ParseAspectRatio は文字列を AspectRatio に変換します。一覧にない値はエラーです。
func ParseAspectRatio(s string) (AspectRatio, error) {
	for _, r := range AspectRatios {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %s. Valid options: %s", ErrInvalidAspectRatio, s, joinOptions(AspectRatios))
}

// ParseModel は文字列を Model に変換します。一覧にない値はエラーです。
func ParseModel(s string) (Model, error) {
	for _, m := range Models {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %s. Valid options: %s", ErrInvalidModel, s, joinOptions(Models))
}

func joinOptions[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

// ImageGenerationRequest は単一の画像生成要求です。
// AspectRatio と Model の空文字は「指定なし」を意味します。
type ImageGenerationRequest struct {
	Prompt      string
	AspectRatio AspectRatio
	Model       Model
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}

// Base64 は画像データを標準の base64 でエンコードした文字列を返します。
func (r *ImageResponse) Base64() string {
	return base64.StdEncoding.EncodeToString(r.Data)
}

// AssetRequest は create_asset の引数一式です。
type AssetRequest struct {
	Prompt      string
	OutputPath  string
	AspectRatio AspectRatio
	Model       Model
}

// Asset はディスクに保存された生成結果と、実際に使われたパラメータです。
type Asset struct {
	FilePath    string
	Prompt      string
	AspectRatio AspectRatio
	Model       Model
}
