package cli

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/evoviz/phylosim/pkg/config"
	"github.com/evoviz/phylosim/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); !slices.Equal(got, []string{pipeline.FormatSVG}) {
		t.Errorf("parseFormats(\"\") = %v, want [svg]", got)
	}
	if got := parseFormats("newick,json,bar"); !slices.Equal(got, []string{"newick", "json", "bar"}) {
		t.Errorf("parseFormats() = %v", got)
	}
}

func TestParseTaxa(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Wolf,Dog,Fox", []string{"Wolf", "Dog", "Fox"}},
		{" Wolf , Dog ", []string{"Wolf", "Dog"}},
		{"Wolf,,Dog", []string{"Wolf", "Dog"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := parseTaxa(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseTaxa(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCacheDir(t *testing.T) {
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	want := filepath.Join("/tmp/xdg-test", appName)
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"", "tree"},
		{"out/run1", "out/run1"},
		{"out/run1.svg", "out/run1"},
		{"out/run1.newick", "out/run1"},
		{"out/run1.txt", "out/run1.txt"}, // unknown extension kept
	}
	for _, tt := range tests {
		if got := basePath(tt.output, "tree"); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()

	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{
			"newick": []byte("(a:1,b:2);\n"),
			"json":   []byte("{}"),
		},
		formats: []string{"newick", "json"},
		output:  filepath.Join(dir, "run.svg"),
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	for _, name := range []string{"run.newick", "run.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output file %s: %v", name, err)
		}
	}
}

func TestWriteArtifactsSingleFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.newick")

	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"newick": []byte("(a:1,b:2);\n")},
		formats:   []string{"newick"},
		output:    path,
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "(a:1,b:2);\n" {
		t.Errorf("output = %q", data)
	}
}

func TestApplyConfigDefaults(t *testing.T) {
	opts := pipeline.Options{
		MutationMin: pipeline.DefaultMutationMin,
		MutationMax: pipeline.DefaultMutationMax,
	}
	applyConfigDefaults(&opts, config.Defaults{
		Policy:      "kary",
		KMin:        2,
		KMax:        3,
		MutationMin: 1,
		MutationMax: 5,
	})

	if opts.Policy != "kary" || opts.KMin != 2 || opts.KMax != 3 {
		t.Errorf("opts = %+v", opts)
	}
	if opts.MutationMin != 1 || opts.MutationMax != 5 {
		t.Errorf("range = [%g, %g], want [1, 5]", opts.MutationMin, opts.MutationMax)
	}

	// Explicit flags win over config defaults.
	opts = pipeline.Options{Policy: "binary", MutationMin: 2, MutationMax: 4}
	applyConfigDefaults(&opts, config.Defaults{Policy: "kary", MutationMin: 1, MutationMax: 5})
	if opts.Policy != "binary" || opts.MutationMin != 2 || opts.MutationMax != 4 {
		t.Errorf("explicit opts overridden: %+v", opts)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"simulate", "stats", "render", "history", "presets", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}
