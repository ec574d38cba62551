package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SWB_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("SWB_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("SWB_STORAGE", "file")
	t.Setenv("SWB_LOG_LEVEL", "error")
	return dir
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	if err := run(args, &out); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func projectID(t *testing.T, out string) string {
	t.Helper()
	i, j := strings.Index(out, "("), strings.Index(out, ")")
	if i < 0 || j < i {
		t.Fatalf("no project id in %q", out)
	}
	return out[i+1 : j]
}

func TestCLIEditRoundTrip(t *testing.T) {
	dir := setupEnv(t)

	id := projectID(t, runCLI(t, "new", "Night Site"))
	comp := strings.TrimSpace(runCLI(t, "add", id, "haunted-button", "137", "54"))
	if comp == "" {
		t.Fatal("add printed no component id")
	}
	if out := runCLI(t, "set", id, comp, "text", "Boo!"); !strings.Contains(out, "updated") {
		t.Errorf("set output = %q", out)
	}

	show := runCLI(t, "show", id)
	for _, want := range []string{"Project: Night Site", comp, "haunted-button", "at (137,54)", `"Boo!"`} {
		if !strings.Contains(show, want) {
			t.Errorf("show missing %q:\n%s", want, show)
		}
	}

	if list := runCLI(t, "list"); !strings.Contains(list, id) || !strings.Contains(list, "haunted-button") {
		t.Errorf("list = %q", list)
	}

	outDir := filepath.Join(dir, "site")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	runCLI(t, "export", id, "html", outDir)
	page, err := os.ReadFile(filepath.Join(outDir, "Night Site.html"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(page), "Boo!") {
		t.Error("exported page lacks the edited text")
	}

	runCLI(t, "rm", id, comp)
	if show := runCLI(t, "show", id); strings.Contains(show, comp) {
		t.Errorf("component still present:\n%s", show)
	}
}

func TestCLINewFromTemplate(t *testing.T) {
	setupEnv(t)
	out := runCLI(t, "new", "Mansion", "haunted-mansion-template")
	if strings.Contains(out, "with 0 components") {
		t.Errorf("template added no components: %q", out)
	}
	if show := runCLI(t, "show", projectID(t, out)); !strings.Contains(show, "Project: Mansion") {
		t.Errorf("template project not renamed:\n%s", show)
	}
}

func TestCLILeavesNoDraftProjects(t *testing.T) {
	setupEnv(t)
	id := projectID(t, runCLI(t, "new", "Night Site"))
	runCLI(t, "add", id, "haunted-button", "40", "40")
	runCLI(t, "add", id, "ghostly-header", "0", "0")

	list := strings.Split(strings.TrimSpace(runCLI(t, "list")), "\n")
	if len(list) != 1 || !strings.Contains(list[0], id) || !strings.Contains(list[0], "2 components") {
		t.Fatalf("list = %q", list)
	}
}

func TestCLIUsageErrors(t *testing.T) {
	setupEnv(t)
	for _, args := range [][]string{nil, {"frobnicate"}, {"add", "x"}, {"new"}} {
		if err := run(args, &bytes.Buffer{}); !errors.Is(err, errUsage) {
			t.Errorf("%v: want usage error, got %v", args, err)
		}
	}
	if err := run([]string{"show", "proj_missing"}, &bytes.Buffer{}); err == nil {
		t.Error("show of a missing project should fail")
	}
	if out := runCLI(t, "version"); !strings.Contains(out, "Spooky Web Builder") {
		t.Errorf("version = %q", out)
	}
}
