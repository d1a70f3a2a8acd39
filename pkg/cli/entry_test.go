package cli

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_UnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"-no-such-flag"}, &stdout, &stderr)
	if code != exitUsage {
		t.Errorf("exit code = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(stderr.String(), "usage: typemint") {
		t.Errorf("stderr = %q, want usage text", stderr.String())
	}
}

func TestRun_MissingConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"-config", filepath.Join(t.TempDir(), "absent.yaml")}, &stdout, &stderr)
	if code != exitError {
		t.Errorf("exit code = %d, want %d", code, exitError)
	}
	if !strings.Contains(stderr.String(), "typemint:") {
		t.Errorf("stderr = %q, want a typemint: error line", stderr.String())
	}
}

// writeTree mirrors the generator tests' fixture; the CLI shells out to the
// go command through go/packages.
func writeTree(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping CLI test in short mode")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not found")
	}

	root := t.TempDir()
	files := map[string]string{
		"go.mod": "module example.com/scratch\n\ngo 1.25\n",
		"units/units.go": `package units

//unique:type Kilometers

//unique:type Miles
`,
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// The CLI runs package loading in the process working directory.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return root
}

func TestRun_GenerateThenVerify(t *testing.T) {
	root := writeTree(t)

	var stdout, stderr bytes.Buffer
	if code := Run(nil, &stdout, &stderr); code != exitOK {
		t.Fatalf("generate: exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "example.com/scratch/units: wrote") {
		t.Errorf("stdout = %q, want a wrote line", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(root, "units", "unique_typemint.go")); err != nil {
		t.Fatalf("generated file missing: %v", err)
	}

	stdout.Reset()
	stderr.Reset()
	if code := Run([]string{"-verify"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("verify: exit code = %d, stderr = %s", code, stderr.String())
	}

	// Tamper, then verify must report drift with its dedicated exit code.
	out := filepath.Join(root, "units", "unique_typemint.go")
	if err := os.WriteFile(out, []byte("package units // tampered\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stdout.Reset()
	stderr.Reset()
	if code := Run([]string{"-verify"}, &stdout, &stderr); code != exitDrift {
		t.Fatalf("verify after tamper: exit code = %d, want %d", code, exitDrift)
	}
	if !strings.Contains(stderr.String(), "stale") {
		t.Errorf("stderr = %q, want a stale report", stderr.String())
	}
}

func TestRun_List(t *testing.T) {
	writeTree(t)

	var stdout, stderr bytes.Buffer
	if code := Run([]string{"-list"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("list: exit code = %d, stderr = %s", code, stderr.String())
	}
	for _, want := range []string{"units.Kilometers", "units.Miles", "units.go:"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, stdout.String())
		}
	}
	// List must not write anything.
	if _, err := os.Stat("units/unique_typemint.go"); !os.IsNotExist(err) {
		t.Errorf("list mode produced a generated file (stat err = %v)", err)
	}
}

func TestColorize_Disabled(t *testing.T) {
	// Test processes have no TTY on stderr, so color must be off and the
	// string must pass through untouched.
	if got := colorize("plain", colorRed); got != "plain" {
		t.Errorf("colorize = %q, want %q", got, "plain")
	}
}
