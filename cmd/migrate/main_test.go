package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDescriptionFromFilename(t *testing.T) {
	cases := map[string]string{
		"2026-10-15-001-create-energy-tables.sql": "create energy tables",
		"2026-11-02-014-add-index.sql":            "add index",
		"no-prefix.sql":                           "no prefix",
	}
	for in, want := range cases {
		if got := descriptionFromFilename(in); got != want {
			t.Errorf("descriptionFromFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMigrationFiles_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2026-10-16-001-b.sql", "2026-10-15-001-a.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("-- test"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := migrationFiles(dir)
	if err != nil {
		t.Fatalf("migrationFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "2026-10-15-001-a.sql" || filepath.Base(files[1]) != "2026-10-16-001-b.sql" {
		t.Errorf("files out of order: %v", files)
	}
}
