// Package config resolves the run configuration from the process
// environment into an explicit Config struct. Nothing below main reads
// environment variables directly; the pipeline and clients receive the
// resolved values, which keeps them unit-testable with injected settings.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Recognized deployment environments.
const (
	EnvBeta = "beta"
	EnvProd = "prod"
)

// Config is the fully resolved configuration for one run.
type Config struct {
	// Environment is the deployment selector, EnvBeta or EnvProd.
	Environment string
	// Region is the AWS region for the Bedrock and S3 clients. No default.
	Region string
	// Bucket is the S3 bucket for the selected environment. No default.
	Bucket string
	// Prefix is prepended to every upload key for this run.
	Prefix string

	// PromptsDir holds the job definition files (*.json).
	PromptsDir string
	// TemplatesDir holds the prompt template files (*.txt).
	TemplatesDir string
	// OutputDir receives the rendered artifacts before upload.
	OutputDir string

	// MaxTokens is the output token budget for every generation call.
	MaxTokens int64
}

// Load builds a Config from environment variables. Region and bucket have
// no defaults: a missing value is reported here, naming the exact variable
// to set, before any remote client is constructed.
func Load() (*Config, error) {
	env := getEnv("DEPLOY_ENV", EnvBeta)

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	if region == "" {
		return nil, fmt.Errorf("no AWS region configured: set AWS_REGION or AWS_DEFAULT_REGION")
	}

	var bucket, prefix string
	switch env {
	case EnvBeta:
		if bucket = os.Getenv("S3_BUCKET_BETA"); bucket == "" {
			return nil, fmt.Errorf("no S3 bucket defined for environment %q: set S3_BUCKET_BETA and try again", env)
		}
		prefix = getEnv("BETA_PREFIX", "beta/")
	case EnvProd:
		if bucket = os.Getenv("S3_BUCKET_PROD"); bucket == "" {
			return nil, fmt.Errorf("no S3 bucket defined for environment %q: set S3_BUCKET_PROD and try again", env)
		}
		prefix = getEnv("PROD_PREFIX", "prod/")
	default:
		return nil, fmt.Errorf("unknown environment %q: expected %q or %q", env, EnvBeta, EnvProd)
	}

	maxTokens := int64(2000)
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_TOKENS %q: expected a positive integer", v)
		}
		maxTokens = n
	}

	return &Config{
		Environment:  env,
		Region:       region,
		Bucket:       bucket,
		Prefix:       prefix,
		PromptsDir:   getEnv("PROMPTS_DIR", "prompts"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "prompt_templates"),
		OutputDir:    getEnv("OUTPUT_DIR", "outputs"),
		MaxTokens:    maxTokens,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
