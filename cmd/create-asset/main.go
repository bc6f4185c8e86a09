// create-asset は Gemini で画像を1枚生成してディスクに保存する CLI です。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/shouni/gemini-media-pipeline/pkg/config"
	"github.com/shouni/gemini-media-pipeline/pkg/generator"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	code := run(ctx, os.Args[1:], deps{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		getenv:    os.Getenv,
		getwd:     os.Getwd,
		newClient: generator.NewGenAIClient,
	})
	stop()
	os.Exit(code)
}
