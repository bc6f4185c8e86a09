package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-media-pipeline/pkg/config"
	"github.com/shouni/gemini-media-pipeline/pkg/domain"
	"github.com/shouni/gemini-media-pipeline/pkg/generator"
	"github.com/shouni/gemini-media-pipeline/pkg/pipeline"
	"github.com/shouni/gemini-media-pipeline/pkg/storage"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// deps はテストで差し替える外部依存です。
type deps struct {
	stdout    io.Writer
	stderr    io.Writer
	getenv    func(string) string
	getwd     func() (string, error)
	newClient func(ctx context.Context, apiKey string) (generator.ContentGenerator, error)
}

// result は標準出力に1行で書き出す JSON です。
type result struct {
	Success  bool   `json:"success"`
	FilePath string `json:"filePath,omitempty"`
	Error    string `json:"error,omitempty"`
}

// options はフラグの値です。
type options struct {
	prompt      string
	output      string
	aspectRatio string
	model       string
	outputDir   string
	verbose     bool
}

// run はコマンドを実行し、終了コードを返します。
// 結果は成功・失敗を問わず必ず1行の JSON として stdout に出します(--help を除く)。
func run(ctx context.Context, args []string, d deps) int {
	var (
		opts   options
		out    *result
		failed bool
	)

	defaultDir, err := d.getwd()
	if err != nil {
		defaultDir = "."
	}

	cmd := &cobra.Command{
		Use:   "create-asset",
		Short: "Generate an image with Google Gemini and save it to disk",
		Long: `Generate an image from a text prompt using the Google Gemini API and save it to disk.

Environment:
  GEMINI_API_KEY             Your Gemini API key (required)

The result is printed as a single JSON line on stdout.`,
		Example: `  create-asset -p "A sunset over mountains" -o "./sunset.png"
  create-asset --prompt "Hero image for tech startup" --aspect-ratio "16:9"`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out = execute(cmd.Context(), opts, d)
			return nil
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(d.stdout)
	cmd.SetErr(d.stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.prompt, "prompt", "p", "", "Image description (required)")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file path (auto-generated if not provided)")
	flags.StringVarP(&opts.aspectRatio, "aspect-ratio", "a", string(domain.DefaultAspectRatio), "Aspect ratio: 1:1, 2:3, 3:2, 3:4, 4:3, 16:9, 9:16")
	flags.StringVarP(&opts.model, "model", "m", string(domain.DefaultModel), "Model: gemini-3-pro-image-preview, gemini-2.5-flash-image")
	flags.StringVarP(&opts.outputDir, "output-dir", "d", defaultDir, "Output directory")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging on stderr")

	if err := cmd.ExecuteContext(ctx); err != nil {
		out = &result{Error: fmt.Sprintf("CLI error: %v", err)}
		failed = true
	}

	if out == nil {
		// --help
		return ExitSuccess
	}
	if !out.Success {
		failed = true
	}

	enc := json.NewEncoder(d.stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return ExitFailure
	}
	if failed {
		return ExitFailure
	}
	return ExitSuccess
}

// execute は入力を検証してから生成と保存を行います。
// 検証はすべてネットワーク呼び出しより前に行います。
func execute(ctx context.Context, opts options, d deps) *result {
	setupLogger(d.stderr, opts.verbose)

	if opts.prompt == "" {
		return failure("Missing required argument: --prompt")
	}
	aspectRatio, err := domain.ParseAspectRatio(opts.aspectRatio)
	if err != nil {
		return failure(err.Error())
	}
	model, err := domain.ParseModel(opts.model)
	if err != nil {
		return failure(err.Error())
	}
	apiKey := d.getenv(config.EnvAPIKey)
	if apiKey == "" {
		return failure(config.ErrMissingAPIKey.Error())
	}

	client, err := d.newClient(ctx, apiKey)
	if err != nil {
		return failure(fmt.Sprintf("Gemini API error: %v", err))
	}
	gen, err := generator.NewGeminiGenerator(client, model)
	if err != nil {
		return failure(err.Error())
	}
	creator, err := pipeline.NewAssetCreator(gen, &deferredStorage{dir: opts.outputDir}, model)
	if err != nil {
		return failure(err.Error())
	}

	asset, err := creator.Create(ctx, domain.AssetRequest{
		Prompt:      opts.prompt,
		OutputPath:  opts.output,
		AspectRatio: aspectRatio,
		Model:       model,
	})
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) && stageErr.Stage == pipeline.StageSave {
			return failure(fmt.Sprintf("Failed to save image: %v", stageErr.Err))
		}
		return failure(err.Error())
	}

	return &result{Success: true, FilePath: asset.FilePath}
}

// deferredStorage は最初の保存時に出力ディレクトリを作ります。
// 生成に失敗した場合はディレクトリを残しません。
type deferredStorage struct {
	dir string
}

func (s *deferredStorage) SaveBytes(data []byte, customPath, mimeType string) (string, error) {
	store, err := storage.NewImageStorage(s.dir)
	if err != nil {
		return "", err
	}
	return store.SaveBytes(data, customPath, mimeType)
}

func failure(msg string) *result {
	return &result{Error: msg}
}

func setupLogger(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
