// Package pipeline coordinates the per-job workflow: discover job
// definitions, render the prompt, invoke the generation backend, persist
// the completion locally and publish it to the artifact store.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"promptpub/config"
	"promptpub/job"
	"promptpub/logging"
	"promptpub/model"
	"promptpub/prompt"
	"promptpub/publish"
)

// Options holds dependency overrides passed to New().
type Options struct {
	Logger logging.Logger
}

// Pipeline runs one sequential pass over every job definition. Jobs are
// independent: a failing job is recorded in its Result and does not stop
// the jobs after it. There is no retry and no parallelism.
type Pipeline struct {
	cfg    *config.Config
	gen    model.Generator
	store  publish.Store
	logger logging.Logger
}

// Result records the outcome of one job.
type Result struct {
	// Job is the job definition's base name.
	Job string
	// Keys are the object keys uploaded for this job, in upload order.
	Keys []string
	// Err is nil on success.
	Err error
}

// New constructs a Pipeline with optional overrides.
func New(cfg *config.Config, gen model.Generator, store publish.Store, optFns ...func(o *Options)) *Pipeline {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Pipeline{
		cfg:    cfg,
		gen:    gen,
		store:  store,
		logger: opts.Logger,
	}
}

// Run performs one full pass and returns one Result per discovered job
// definition, in discovery order. It fails outright only when the output
// directory cannot be created or the prompts directory cannot be listed.
func (p *Pipeline) Run(ctx context.Context) ([]Result, error) {
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths, err := job.Discover(p.cfg.PromptsDir)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		name := job.Name(path)
		keys, err := p.processJob(ctx, path)
		if err != nil {
			p.logger.Error("job failed", "job", name, "error", err)
		}
		results = append(results, Result{Job: name, Keys: keys, Err: err})
	}

	return results, nil
}

// processJob executes steps (a)-(g) for a single definition file and
// returns the keys uploaded so far even when a later step fails.
func (p *Pipeline) processJob(ctx context.Context, path string) ([]string, error) {
	runID := uuid.NewString()

	def, err := job.Load(path)
	if err != nil {
		return nil, err
	}
	p.logger.Info("processing job", "job", def.Name, "run_id", runID, "model", p.gen.Info().Model)

	promptText, err := prompt.RenderFile(def.TemplatePath(p.cfg.TemplatesDir), def.Variables)
	if err != nil {
		return nil, err
	}

	filename, err := prompt.Render("output_file", def.OutputFile, def.Variables)
	if err != nil {
		return nil, fmt.Errorf("render output filename: %w", err)
	}

	completion, err := p.gen.Generate(ctx, promptText)
	if err != nil {
		return nil, err
	}

	outPath := filepath.Join(p.cfg.OutputDir, filename)
	if err := os.WriteFile(outPath, []byte(completion), 0o644); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}

	keys := []string{p.cfg.Prefix + filename}
	if def.MakeIndex {
		keys = append(keys, p.cfg.Prefix+publish.IndexKey)
	}

	uploaded := make([]string, 0, len(keys))
	for _, key := range keys {
		uri, err := p.store.Upload(ctx, outPath, key)
		if err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, key)
		p.logger.Info("uploaded", "job", def.Name, "run_id", runID, "destination", uri)
	}

	return uploaded, nil
}
