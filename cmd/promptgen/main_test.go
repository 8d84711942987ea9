package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-promptgen/pkg/domain"
)

const greetingTemplate = `<prompt name="greeting"><section type="system">Hi {{ who }}</section></prompt>
`

const modelTemplate = `<prompt name="m"><description>D</description><section type="rules"><rule>R<note>n</note></rule></section>{% for r in rules %}[{{ r.text }}{% for s in r.sub_items %}:{{ s.type }}={{ s.text }}{% endfor %}]{% endfor %}</prompt>
`

type fakePrompter struct {
	answers map[string]string
	err     error
	asked   []string
}

func (f *fakePrompter) Input(_ context.Context, message string) (string, error) {
	f.asked = append(f.asked, message)
	if f.err != nil {
		return "", f.err
	}
	return f.answers[message], nil
}

func execute(t *testing.T, p prompter, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd(p)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func workspace(t *testing.T, templates map[string]string) (string, string) {
	t.Helper()

	root := t.TempDir()
	tplDir := filepath.Join(root, "templates")
	require.NoError(t, os.MkdirAll(tplDir, 0o755))
	for name, content := range templates {
		require.NoError(t, os.WriteFile(filepath.Join(tplDir, name), []byte(content), 0o644))
	}
	return tplDir, filepath.Join(root, "outputs")
}

func TestGenerateWritesPrompt(t *testing.T) {
	tplDir, outDir := workspace(t, map[string]string{"greeting.xml": greetingTemplate})

	stdout, _, err := execute(t, nil,
		"generate", "greeting",
		"--templates", tplDir,
		"--output", outDir,
		"--set", "who=Ada",
		"--prefix", "run",
	)
	require.NoError(t, err)
	require.Contains(t, stdout, "Prompt written to ")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, strings.HasPrefix(entries[0].Name(), "run_"))
	require.True(t, strings.HasSuffix(entries[0].Name(), ".txt"))

	saved, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	require.Equal(t, `<prompt name="greeting"><section type="system">Hi Ada</section></prompt>`+"\n", string(saved))
}

func TestGenerateMissingTemplateIsGenerationError(t *testing.T) {
	tplDir, outDir := workspace(t, nil)

	_, _, err := execute(t, nil, "generate", "absent.xml", "--templates", tplDir, "--output", outDir)
	require.Error(t, err)

	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	require.Contains(t, err.Error(), "absent.xml")
}

func TestRenderLayersContextSources(t *testing.T) {
	tplDir, outDir := workspace(t, map[string]string{
		"layers.j2": "{{ who }}|{{ task.kind }}|{{ task.level }}|{{ mood }}\n",
	})
	ctxFile := filepath.Join(t.TempDir(), "context.yaml")
	require.NoError(t, os.WriteFile(ctxFile, []byte("who: file\ntask:\n  kind: codegen\n  level: 1\n"), 0o644))

	p := &fakePrompter{answers: map[string]string{"mood": "calm"}}
	stdout, _, err := execute(t, p,
		"render", "layers.j2",
		"--templates", tplDir,
		"--output", outDir,
		"--context", ctxFile,
		"--set", "task.level=3",
		"--ask", "mood",
	)
	require.NoError(t, err)
	require.Equal(t, "file|codegen|3|calm\n", stdout)
	require.Equal(t, []string{"mood"}, p.asked)

	_, statErr := os.Stat(outDir)
	require.NoError(t, statErr, "output directory is created on start-up")
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Empty(t, entries, "render must not write prompts")
}

func TestRenderWithModelContext(t *testing.T) {
	tplDir, outDir := workspace(t, map[string]string{"model.xml": modelTemplate})

	stdout, _, err := execute(t, nil, "render", "model", "--templates", tplDir, "--output", outDir, "--model")
	require.NoError(t, err)
	require.Contains(t, stdout, "[R:note=n]")
}

func TestRenderAppliesPreset(t *testing.T) {
	tplDir, outDir := workspace(t, map[string]string{"preset.j2": "{{ complexity }}/{{ task_type }}\n"})
	preset := filepath.Join(t.TempDir(), "preset.yaml")
	require.NoError(t, os.WriteFile(preset, []byte("defaults:\n  complexity: basic\noverrides:\n  task_type: review\n"), 0o644))

	stdout, _, err := execute(t, nil,
		"render", "preset.j2",
		"--templates", tplDir,
		"--output", outDir,
		"--preset", preset,
		"--set", "task_type=ignored",
	)
	require.NoError(t, err)
	require.Equal(t, "basic/review\n", stdout)
}

func TestAskAbortStopsCommand(t *testing.T) {
	tplDir, outDir := workspace(t, map[string]string{"greeting.xml": greetingTemplate})

	p := &fakePrompter{err: errAborted}
	_, _, err := execute(t, p, "generate", "greeting", "--templates", tplDir, "--output", outDir, "--ask", "who")
	require.ErrorIs(t, err, errAborted)

	entries, readErr := os.ReadDir(outDir)
	require.NoError(t, readErr)
	require.Empty(t, entries)
}

func TestInspectFormats(t *testing.T) {
	tplDir, outDir := workspace(t, map[string]string{"model.xml": modelTemplate})

	jsonOut, _, err := execute(t, nil, "inspect", "model", "--templates", tplDir, "--output", outDir)
	require.NoError(t, err)
	require.Contains(t, jsonOut, `"name": "m"`)
	require.Contains(t, jsonOut, `"kind": "note"`)

	yamlOut, _, err := execute(t, nil, "inspect", "model", "-f", "yaml", "--templates", tplDir, "--output", outDir)
	require.NoError(t, err)
	require.Contains(t, yamlOut, "name: m")
	require.Contains(t, yamlOut, "type: rules")

	_, _, err = execute(t, nil, "inspect", "model", "-f", "toml", "--templates", tplDir, "--output", outDir)
	require.Error(t, err)
}

func TestListShowsTemplates(t *testing.T) {
	tplDir, outDir := workspace(t, map[string]string{
		"greeting.xml": greetingTemplate,
		"notes.j2":     "plain\n",
	})

	stdout, _, err := execute(t, nil, "list", "--templates", tplDir, "--output", outDir)
	require.NoError(t, err)
	require.Contains(t, stdout, "NAME")
	require.Contains(t, stdout, "greeting.xml")
	require.Contains(t, stdout, "notes.j2")

	filtered, _, err := execute(t, nil, "list", "*.xml", "--templates", tplDir, "--output", outDir)
	require.NoError(t, err)
	require.Contains(t, filtered, "greeting.xml")
	require.NotContains(t, filtered, "notes.j2")
}

func TestInitCreatesConfigAndSamples(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "promptgen.yaml")
	tplDir := filepath.Join(root, "tpl")
	outDir := filepath.Join(root, "out")

	stdout, _, err := execute(t, nil, "init", "--config", cfgPath, "--templates", tplDir, "--output", outDir)
	require.NoError(t, err)
	require.Contains(t, stdout, "Created "+cfgPath)

	require.FileExists(t, cfgPath)
	require.DirExists(t, outDir)
	require.FileExists(t, filepath.Join(tplDir, "comprehensive_task_template.xml"))
	require.FileExists(t, filepath.Join(tplDir, "prompt_template.j2"))

	again, _, err := execute(t, nil, "init", "--config", cfgPath, "--templates", tplDir, "--output", outDir)
	require.NoError(t, err)
	require.Contains(t, again, "Kept existing "+cfgPath)
	require.NotContains(t, again, "Added ")
}

func TestInvalidLogFormatFails(t *testing.T) {
	tplDir, outDir := workspace(t, nil)

	_, _, err := execute(t, nil, "list", "--templates", tplDir, "--output", outDir, "--log-format", "xml")
	require.Error(t, err)
}

func TestTranslateSurveyErr(t *testing.T) {
	require.ErrorIs(t, translateSurveyErr(terminal.InterruptErr), errAborted)

	other := errors.New("boom")
	require.Same(t, other, translateSurveyErr(other))
}
