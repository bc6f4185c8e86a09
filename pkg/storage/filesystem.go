// Package storage は生成画像をローカルファイルシステムへ保存します。
package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	defaultExtension = ".png"
	filePrefix       = "generated-"
)

// mimeToExt は MIME タイプから拡張子への固定表です。
var mimeToExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStorage は出力ディレクトリを起点に画像を書き出します。
// 書き込みは1回の os.WriteFile で、既存ファイルは警告なしに上書きします。
// fsync や途中失敗時の後始末はしません。
type ImageStorage struct {
	outputDir string
}

// NewImageStorage は outputDir を絶対パスに解決し、なければ再帰的に作成します。
func NewImageStorage(outputDir string) (*ImageStorage, error) {
	if outputDir == "" {
		return nil, errors.New("storage: output directory is required")
	}
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve output directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure output directory: %w", err)
	}
	return &ImageStorage{outputDir: abs}, nil
}

// OutputDir は解決済みの出力ディレクトリ(絶対パス)を返します。
func (s *ImageStorage) OutputDir() string {
	return s.outputDir
}

// Save は base64 エンコードされた画像をデコードして保存し、書き込んだ絶対パスを返します。
// 外部から base64 文字列を受け取る場合の入口です。パイプライン内ではデコード済みのバイト列を SaveBytes に渡します。
func (s *ImageStorage) Save(base64Data, customPath, mimeType string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return "", fmt.Errorf("storage: decode base64: %w", err)
	}
	return s.SaveBytes(data, customPath, mimeType)
}

// SaveBytes はデコード済みの画像を保存し、書き込んだ絶対パスを返します。
func (s *ImageStorage) SaveBytes(data []byte, customPath, mimeType string) (string, error) {
	filePath, err := s.resolvePath(customPath, mimeType)
	if err != nil {
		return "", fmt.Errorf("storage: generate file name: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return filePath, nil
}

// resolvePath は保存先の絶対パスを決めます。
// customPath が絶対パスならそのまま、相対パスなら出力ディレクトリ配下に置きます。
// 未指定の場合は generated-<uuid><ext> を生成します。
func (s *ImageStorage) resolvePath(customPath, mimeType string) (string, error) {
	filename := customPath
	if filename == "" {
		id, err := uuid.NewRandom()
		if err != nil {
			return "", err
		}
		filename = filePrefix + id.String() + ExtensionForMimeType(mimeType)
	}

	if filepath.IsAbs(filename) {
		return filepath.Clean(filename), nil
	}
	return filepath.Join(s.outputDir, filename), nil
}

// ExtensionForMimeType は MIME タイプに対応する拡張子を返します。未知の値は .png です。
func ExtensionForMimeType(mimeType string) string {
	if ext, ok := mimeToExt[mimeType]; ok {
		return ext
	}
	return defaultExtension
}
