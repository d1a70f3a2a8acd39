package gen

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDigest(t *testing.T) {
	ps := testPackageSites()

	if Digest(ps) != Digest(ps) {
		t.Error("digest of identical input differs")
	}
	if len(Digest(ps)) != 16 {
		t.Errorf("digest length = %d, want 16", len(Digest(ps)))
	}

	moved := testPackageSites()
	moved.Sites[1].Line++
	if Digest(moved) == Digest(ps) {
		t.Error("moving a directive did not change the digest")
	}

	renamed := testPackageSites()
	renamed.Sites[0].Name = "Meters"
	if Digest(renamed) == Digest(ps) {
		t.Error("renaming a directive did not change the digest")
	}
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.go")
	content := []byte("package p\n")

	wrote, err := WriteOutput(path, content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wrote {
		t.Error("first write reported nothing written")
	}

	// Unchanged content must not rewrite the file.
	wrote, err = WriteOutput(path, content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wrote {
		t.Error("identical content was rewritten")
	}

	wrote, err = WriteOutput(path, []byte("package q\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wrote {
		t.Error("changed content was not rewritten")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "package q\n" {
		t.Errorf("file content = %q", got)
	}
}

func TestVerifyOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.go")
	content := []byte("package p\n")

	// Missing file is drift.
	if err := VerifyOutput(path, content); !errors.Is(err, ErrDrift) {
		t.Errorf("missing file: error = %v, want ErrDrift", err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := VerifyOutput(path, content); err != nil {
		t.Errorf("current file: unexpected error %v", err)
	}

	// Stale file is drift.
	if err := os.WriteFile(path, []byte("package p // edited\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := VerifyOutput(path, content); !errors.Is(err, ErrDrift) {
		t.Errorf("stale file: error = %v, want ErrDrift", err)
	}
}
