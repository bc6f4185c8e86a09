// Package config はプロセス起動時に一度だけ読み込む設定を扱います。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/shouni/gemini-media-pipeline/pkg/domain"
)

const (
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvDefaultModel = "GEMINI_DEFAULT_MODEL"
	EnvOutputDir    = "IMAGE_OUTPUT_DIR"

	DefaultOutputDir = "./generated-images"
)

// ErrMissingAPIKey は API キーが設定されていない場合のエラーです。
var ErrMissingAPIKey = errors.New(EnvAPIKey + " environment variable not set")

// Config は各コンポーネントへ明示的に渡す不変の設定値です。
type Config struct {
	APIKey       string
	DefaultModel domain.Model
	OutputDir    string
}

// Load はカレントディレクトリの .env を読み込んだうえで環境変数から Config を作ります。
// .env がなくてもエラーにはしません。既存の環境変数は .env で上書きされません。
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	return FromEnv(os.Getenv)
}

// LoadDotEnv はカレントディレクトリの .env を環境変数に取り込みます。ファイルがなければ何もしません。
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf(".env の読み込みに失敗しました: %w", err)
	}
	return nil
}

// FromEnv は任意の lookup 関数から Config を組み立てます。
func FromEnv(lookup func(string) string) (*Config, error) {
	apiKey := lookup(EnvAPIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	model := domain.DefaultModel
	if v := lookup(EnvDefaultModel); v != "" {
		m, err := domain.ParseModel(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvDefaultModel, err)
		}
		model = m
	}

	outputDir := lookup(EnvOutputDir)
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	return &Config{
		APIKey:       apiKey,
		DefaultModel: model,
		OutputDir:    outputDir,
	}, nil
}

// String は API キーを伏せた文字列表現を返します。
func (c Config) String() string {
	return fmt.Sprintf("Config{APIKey:%s DefaultModel:%s OutputDir:%s}", redact(c.APIKey), c.DefaultModel, c.OutputDir)
}

// LogValue は slog に渡されたときも API キーを出さないようにします。
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("api_key", redact(c.APIKey)),
		slog.String("default_model", string(c.DefaultModel)),
		slog.String("output_dir", c.OutputDir),
	)
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "[REDACTED]"
}
