package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLintBuildFilesValidFile(t *testing.T) {
	lintFlags.file = "testdata/valid.anvil"
	lintFlags.dir = ""
	lintFlags.client = ""
	lintFlags.format = "text"

	err := lintBuildFiles(nil, []string{})
	if err != nil {
		t.Errorf("lintBuildFiles() with valid file returned error: %v", err)
	}
}

func TestLintBuildFilesInvalidFile(t *testing.T) {
	lintFlags.file = "testdata/invalid.anvil"
	lintFlags.dir = ""
	lintFlags.client = ""
	lintFlags.format = "text"

	err := lintBuildFiles(nil, []string{})
	if err == nil {
		t.Error("lintBuildFiles() with invalid file should return error")
	}
}

func TestLintBuildFilesNonexistentFile(t *testing.T) {
	lintFlags.file = "testdata/nonexistent.anvil"
	lintFlags.dir = ""
	lintFlags.client = ""
	lintFlags.format = "text"

	err := lintBuildFiles(nil, []string{})
	if err == nil {
		t.Error("lintBuildFiles() with nonexistent file should return error")
	}
}

func TestLintBuildFilesNoFileOrDir(t *testing.T) {
	lintFlags.file = ""
	lintFlags.dir = ""
	lintFlags.client = ""
	lintFlags.format = "text"

	err := lintBuildFiles(nil, []string{})
	if err == nil {
		t.Error("lintBuildFiles() without file or dir should return error")
	}
}

func TestLintBuildFilesJSONFormat(t *testing.T) {
	lintFlags.file = "testdata/valid.anvil"
	lintFlags.dir = ""
	lintFlags.client = ""
	lintFlags.format = "json"

	err := lintBuildFiles(nil, []string{})
	if err != nil {
		t.Errorf("lintBuildFiles() with JSON format returned error: %v", err)
	}
}

func TestLintBuildFilesClientMismatch(t *testing.T) {
	lintFlags.file = "testdata/valid.anvil"
	lintFlags.dir = ""
	lintFlags.client = "other-client"
	lintFlags.format = "text"

	err := lintBuildFiles(nil, []string{})
	if err == nil {
		t.Error("lintBuildFiles() with mismatched client should return error")
	}
}

func TestValidateBuildFile(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		wantValid bool
	}{
		{
			name:      "valid build file",
			file:      "testdata/valid.anvil",
			wantValid: true,
		},
		{
			name:      "invalid build file",
			file:      "testdata/invalid.anvil",
			wantValid: false,
		},
		{
			name:      "nonexistent file",
			file:      "testdata/nonexistent.anvil",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateBuildFile(tt.file, "")
			if result.Valid != tt.wantValid {
				t.Errorf("validateBuildFile(%q).Valid = %v, want %v",
					tt.file, result.Valid, tt.wantValid)
			}
		})
	}
}

func TestValidateBuildFilePosition(t *testing.T) {
	result := validateBuildFile("testdata/invalid.anvil", "")
	if result.Valid {
		t.Fatal("validateBuildFile() on invalid file reported valid")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(result.Errors))
	}
	if result.Errors[0].Line != 1 {
		t.Errorf("error line = %d, want 1", result.Errors[0].Line)
	}
}

func TestLintBuildFilesDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	valid := "client:\n  name: anvil\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "a.anvil"), []byte(valid), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "b.yaml"), []byte(valid), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("not a build file"), 0o644); err != nil {
		t.Fatal(err)
	}

	lintFlags.file = ""
	lintFlags.dir = tmpDir
	lintFlags.client = ""
	lintFlags.format = "text"

	err := lintBuildFiles(nil, []string{})
	if err != nil {
		t.Errorf("lintBuildFiles() over directory returned error: %v", err)
	}
}

func TestLintBuildFilesEmptyDirectory(t *testing.T) {
	lintFlags.file = ""
	lintFlags.dir = t.TempDir()
	lintFlags.client = ""
	lintFlags.format = "text"

	err := lintBuildFiles(nil, []string{})
	if err == nil {
		t.Error("lintBuildFiles() over empty directory should return error")
	}
}
