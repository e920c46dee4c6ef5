package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptpub/config"
	"promptpub/model"
	"promptpub/publish"
)

// fakeGenerator echoes the prompt so tests can tie outputs back to inputs.
type fakeGenerator struct {
	fn    func(prompt string) (string, error)
	calls []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls = append(f.calls, prompt)
	if f.fn != nil {
		return f.fn(prompt)
	}
	return "completion: " + prompt, nil
}

func (f *fakeGenerator) Info() model.Info {
	return model.Info{Model: "fake", Provider: "test"}
}

type fixture struct {
	cfg   *config.Config
	gen   *fakeGenerator
	store *publish.InMemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Environment:  config.EnvBeta,
		Region:       "eu-central-1",
		Bucket:       "content-beta",
		Prefix:       "beta/",
		PromptsDir:   filepath.Join(root, "prompts"),
		TemplatesDir: filepath.Join(root, "prompt_templates"),
		OutputDir:    filepath.Join(root, "outputs"),
		MaxTokens:    2000,
	}
	require.NoError(t, os.MkdirAll(cfg.PromptsDir, 0o755))
	require.NoError(t, os.MkdirAll(cfg.TemplatesDir, 0o755))
	return &fixture{cfg: cfg, gen: &fakeGenerator{}, store: publish.NewInMemoryStore()}
}

func (f *fixture) writeJob(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.PromptsDir, name), []byte(content), 0o644))
}

func (f *fixture) writeTemplate(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.TemplatesDir, name), []byte(content), 0o644))
}

func (f *fixture) run(t *testing.T) []Result {
	t.Helper()
	results, err := New(f.cfg, f.gen, f.store).Run(context.Background())
	require.NoError(t, err)
	return results
}

func TestPipeline_SingleJob(t *testing.T) {
	f := newFixture(t)
	f.writeJob(t, "welcome_prompt.json",
		`{"variables": {"name": "Ada", "id": "42"}, "output_file": "report_{{ .id }}.html"}`)
	f.writeTemplate(t, "welcome.txt", "Hello {{ .name }}!")

	results := f.run(t)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "welcome_prompt", results[0].Job)
	assert.Equal(t, []string{"beta/report_42.html"}, results[0].Keys)

	// Prompt was rendered before generation.
	require.Len(t, f.gen.calls, 1)
	assert.Equal(t, "Hello Ada!", f.gen.calls[0])

	// Local artifact and remote object hold the completion.
	local, err := os.ReadFile(filepath.Join(f.cfg.OutputDir, "report_42.html"))
	require.NoError(t, err)
	assert.Equal(t, "completion: Hello Ada!", string(local))

	remote, err := f.store.Get("beta/report_42.html")
	require.NoError(t, err)
	assert.Equal(t, local, remote)
}

func TestPipeline_MakeIndex(t *testing.T) {
	f := newFixture(t)
	f.writeJob(t, "landing_prompt.json",
		`{"variables": {"topic": "tides"}, "output_file": "landing.html", "make_index": true}`)
	f.writeTemplate(t, "landing.txt", "Write about {{ .topic }}.")

	results := f.run(t)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, []string{"beta/landing.html", "beta/index.html"}, results[0].Keys)

	page, err := f.store.Get("beta/landing.html")
	require.NoError(t, err)
	index, err := f.store.Get("beta/index.html")
	require.NoError(t, err)
	assert.Equal(t, page, index)
	assert.Len(t, f.store.Keys(), 2)
}

func TestPipeline_ExplicitTemplateField(t *testing.T) {
	f := newFixture(t)
	f.writeJob(t, "digest_prompt.json",
		`{"variables": {"day": "Monday"}, "output_file": "digest.html", "template": "weekly.txt"}`)
	f.writeTemplate(t, "weekly.txt", "Digest for {{ .day }}.")

	results := f.run(t)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, []string{"Digest for Monday."}, f.gen.calls)
}

func TestPipeline_CollidingOutputFiles(t *testing.T) {
	f := newFixture(t)
	// Glob order is lexical: a_prompt runs first, b_prompt wins.
	f.writeJob(t, "a_prompt.json", `{"variables": {}, "output_file": "page.html"}`)
	f.writeJob(t, "b_prompt.json", `{"variables": {}, "output_file": "page.html"}`)
	f.writeTemplate(t, "a.txt", "first")
	f.writeTemplate(t, "b.txt", "second")

	results := f.run(t)
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)

	local, err := os.ReadFile(filepath.Join(f.cfg.OutputDir, "page.html"))
	require.NoError(t, err)
	assert.Equal(t, "completion: second", string(local))

	remote, err := f.store.Get("beta/page.html")
	require.NoError(t, err)
	assert.Equal(t, "completion: second", string(remote))
	assert.Len(t, f.store.Keys(), 1)
}

func TestPipeline_JobIsolation(t *testing.T) {
	f := newFixture(t)
	// a_prompt references a variable its definition does not provide.
	f.writeJob(t, "a_prompt.json", `{"variables": {}, "output_file": "a.html"}`)
	f.writeJob(t, "b_prompt.json", `{"variables": {"name": "Ada"}, "output_file": "b.html"}`)
	f.writeTemplate(t, "a.txt", "Hello {{ .name }}!")
	f.writeTemplate(t, "b.txt", "Hello {{ .name }}!")

	results := f.run(t)
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	assert.Empty(t, results[0].Keys)

	require.NoError(t, results[1].Err)
	assert.Equal(t, []string{"beta/b.html"}, results[1].Keys)

	_, err := f.store.Get("beta/a.html")
	assert.Error(t, err)
}

func TestPipeline_InvalidDefinitionIsolated(t *testing.T) {
	f := newFixture(t)
	f.writeJob(t, "a_prompt.json", `{"variables": {}}`) // missing output_file
	f.writeJob(t, "b_prompt.json", `{"variables": {}, "output_file": "b.html"}`)
	f.writeTemplate(t, "b.txt", "static prompt")

	results := f.run(t)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
}

func TestPipeline_GeneratorErrorIsolated(t *testing.T) {
	f := newFixture(t)
	f.gen.fn = func(prompt string) (string, error) {
		if prompt == "boom" {
			return "", fmt.Errorf("service unavailable")
		}
		return "ok", nil
	}
	f.writeJob(t, "a_prompt.json", `{"variables": {}, "output_file": "a.html"}`)
	f.writeJob(t, "b_prompt.json", `{"variables": {}, "output_file": "b.html"}`)
	f.writeTemplate(t, "a.txt", "boom")
	f.writeTemplate(t, "b.txt", "fine")

	results := f.run(t)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.Empty(t, results[0].Keys)
	require.NoError(t, results[1].Err)

	// Nothing was written or uploaded for the failed job.
	_, err := os.Stat(filepath.Join(f.cfg.OutputDir, "a.html"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, []string{"beta/b.html"}, f.store.Keys())
}

func TestPipeline_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.writeJob(t, "welcome_prompt.json",
		`{"variables": {"name": "Ada"}, "output_file": "welcome.html", "make_index": true}`)
	f.writeTemplate(t, "welcome.txt", "Hello {{ .name }}!")

	first := f.run(t)
	require.NoError(t, first[0].Err)
	firstRemote, err := f.store.Get("beta/welcome.html")
	require.NoError(t, err)

	second := f.run(t)
	require.NoError(t, second[0].Err)
	secondRemote, err := f.store.Get("beta/welcome.html")
	require.NoError(t, err)

	assert.Equal(t, firstRemote, secondRemote)
	assert.Len(t, f.store.Keys(), 2) // overwritten, not duplicated
}

func TestPipeline_NoJobs(t *testing.T) {
	f := newFixture(t)

	results := f.run(t)
	assert.Empty(t, results)

	// Output directory creation is idempotent and happens up front.
	info, err := os.Stat(f.cfg.OutputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
