package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"promptpub/config"
	"promptpub/logging"
	"promptpub/model/bedrock"
	"promptpub/pipeline"
	"promptpub/publish"
)

// promptpub renders every job definition's prompt template, sends it to
// Claude on Amazon Bedrock, writes the completion locally and uploads it to
// the environment's S3 bucket. Configuration comes from the environment
// (optionally a .env file); a missing region or bucket aborts the run
// before any client is constructed.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "promptpub: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local runs keep their settings in a .env file; absence is fine.
	_ = godotenv.Load()

	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	gen, err := bedrock.NewGenerator(ctx, func(o *bedrock.Options) {
		o.Region = cfg.Region
		o.MaxTokens = cfg.MaxTokens
	})
	if err != nil {
		return err
	}

	store, err := publish.NewS3Store(ctx, cfg.Region, cfg.Bucket)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, gen, store, func(o *pipeline.Options) {
		o.Logger = logger
	})

	results, err := p.Run(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	logger.Info("run complete",
		"environment", cfg.Environment,
		"bucket", cfg.Bucket,
		"jobs", len(results),
		"failed", failed,
	)

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(results))
	}
	return nil
}
