// Package bedrock provides a model.Generator backed by Anthropic Claude on
// Amazon Bedrock.
package bedrock

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	awsbedrock "github.com/anthropics/anthropic-sdk-go/bedrock"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"promptpub/model"
)

// DefaultModelID is the fixed Bedrock model identifier used for every job.
// Model identity is not configurable per job.
const DefaultModelID anthropic.Model = "anthropic.claude-3-sonnet-20240229-v1:0"

// roleMarker prefixes the prompt text inside the single user message.
const roleMarker = "Human: "

// Options configures the Bedrock generator (model id, token budget, region).
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	Region    string
}

// Generator wraps the Anthropic Messages API on Bedrock behind the generic
// model.Generator interface.
type Generator struct {
	client *anthropic.Client
	opts   Options
}

// NewGenerator creates a Bedrock-backed generator using ambient AWS
// credentials. The region must be resolved by the caller; there is no
// default and no fallback.
func NewGenerator(ctx context.Context, optFns ...func(o *Options)) (*Generator, error) {
	opts := Options{
		Model:     DefaultModelID,
		MaxTokens: 2000,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Region == "" {
		return nil, fmt.Errorf("bedrock: no region configured")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := anthropic.NewClient(awsbedrock.WithConfig(cfg))

	return &Generator{
		client: &client,
		opts:   opts,
	}, nil
}

// Generate sends the prompt as a single user message and concatenates the
// text content blocks of the response in order. The call blocks until the
// service answers or fails; there is no client-side timeout and no retry.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.opts.Model,
		MaxTokens: g.opts.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(roleMarker + prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("bedrock api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}

	return sb.String(), nil
}

// Info returns metadata describing this generator implementation.
func (g *Generator) Info() model.Info {
	return model.Info{
		Model:    string(g.opts.Model),
		Provider: "bedrock",
	}
}
