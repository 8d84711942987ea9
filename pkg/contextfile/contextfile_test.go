package contextfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-promptgen/pkg/contextfile"
	"github.com/goliatone/go-promptgen/pkg/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAMLAndJSONAgree(t *testing.T) {
	yamlPath := writeFile(t, "ctx.yaml", `task_type: refactor
complexity: 3
rules:
  - text: R
    sub_items:
      - type: note
        text: n
`)
	jsonPath := writeFile(t, "ctx.json", `{
  "task_type": "refactor",
  "complexity": 3,
  "rules": [{"text": "R", "sub_items": [{"type": "note", "text": "n"}]}]
}`)

	fromYAML, err := contextfile.Load(yamlPath)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	fromJSON, err := contextfile.Load(jsonPath)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}

	want := map[string]any{
		"task_type":  "refactor",
		"complexity": 3,
		"rules": []any{
			map[string]any{
				"text": "R",
				"sub_items": []any{
					map[string]any{"type": "note", "text": "n"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, fromYAML); diff != "" {
		t.Fatalf("yaml mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, fromJSON); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	got, err := contextfile.Load(writeFile(t, "empty.yaml", "  \n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty mapping, got %#v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := contextfile.Load(filepath.Join(t.TempDir(), "missing.yaml")); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found kind, got %v", err)
	}
	if _, err := contextfile.Load(writeFile(t, "bad.json", "{")); !domain.IsKind(err, domain.KindParse) {
		t.Fatalf("expected parse kind for json, got %v", err)
	}
	if _, err := contextfile.Load(writeFile(t, "list.yaml", "- a\n- b\n")); !domain.IsKind(err, domain.KindParse) {
		t.Fatalf("expected parse kind for non-mapping yaml, got %v", err)
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := contextfile.ParseAssignments([]string{
		"task_type=bug fix",
		"complexity=4",
		"ratio=0.5",
		"strict=true",
		"project.name=promptgen",
		"project.lang=Go",
		"equation=a=b",
		"empty=",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := map[string]any{
		"task_type":  "bug fix",
		"complexity": 4,
		"ratio":      0.5,
		"strict":     true,
		"project":    map[string]any{"name": "promptgen", "lang": "Go"},
		"equation":   "a=b",
		"empty":      "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAssignmentsErrors(t *testing.T) {
	cases := [][]string{
		{"novalue"},
		{"=value"},
		{"a..b=1"},
		{"a=1", "a.b=2"},
	}
	for _, pairs := range cases {
		if _, err := contextfile.ParseAssignments(pairs); err == nil {
			t.Fatalf("expected error for %v", pairs)
		}
	}
}

func TestMerge(t *testing.T) {
	dst := map[string]any{
		"task_type": "feature",
		"project":   map[string]any{"name": "a", "lang": "Go"},
	}
	src := map[string]any{
		"task_type": "bug",
		"project":   map[string]any{"name": "b"},
		"extra":     1,
	}

	got := contextfile.Merge(dst, src)
	want := map[string]any{
		"task_type": "bug",
		"project":   map[string]any{"name": "b", "lang": "Go"},
		"extra":     1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}

	if got := contextfile.Merge(nil, map[string]any{"k": "v"}); got["k"] != "v" {
		t.Fatalf("merge into nil failed: %#v", got)
	}
}
