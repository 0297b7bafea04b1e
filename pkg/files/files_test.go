package files

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/salesforce"
)

func TestEnsureDirectory(t *testing.T) {
	store := NewDiskStore()
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := store.EnsureDirectory(dir); err != nil {
		t.Fatalf("EnsureDirectory failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("expected a directory")
	}

	// Idempotent.
	if err := store.EnsureDirectory(dir); err != nil {
		t.Fatalf("second EnsureDirectory failed: %v", err)
	}
}

func TestWriteFilePlain(t *testing.T) {
	store := NewDiskStore()
	path := filepath.Join(t.TempDir(), "test.log")

	content := []byte("line 1\nline 2\n")
	if err := store.WriteFile(path, content); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteFileGzip(t *testing.T) {
	store := NewDiskStore()
	path := filepath.Join(t.TempDir(), "test.log.gz")

	content := []byte("compress me please, compress me please")
	if err := store.WriteFile(path, content); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening: %v", err)
	}
	defer func() { _ = f.Close() }()

	gr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("expected gzip content: %v", err)
	}
	got, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("decompressing: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("decompressed content mismatch: got %q", got)
	}
}

func TestWriteJSON(t *testing.T) {
	store := NewDiskStore()
	path := filepath.Join(t.TempDir(), "meta.json")

	in := map[string]any{"id": "07L000000000001", "matches": 3}
	if err := store.WriteJSON(path, in); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshaling: %v", err)
	}
	if out["id"] != "07L000000000001" {
		t.Errorf("unexpected id: %v", out["id"])
	}
}

func TestEstimateAndCheckSpace(t *testing.T) {
	store := NewDiskStore()
	records := []salesforce.LogRecord{
		{ID: "a", LogLength: 1000},
		{ID: "b", LogLength: 2000},
	}

	est, err := store.EstimateAndCheckSpace(records, t.TempDir())
	if err != nil {
		t.Fatalf("EstimateAndCheckSpace failed: %v", err)
	}

	want := int64(1000 + 2000 + 2*1024)
	if est.EstimatedBytes != want {
		t.Errorf("estimated %d bytes, want %d", est.EstimatedBytes, want)
	}
	if !est.OK {
		t.Error("expected space check to pass in temp dir")
	}
}

func TestEstimateEmptyRecords(t *testing.T) {
	store := NewDiskStore()
	est, err := store.EstimateAndCheckSpace(nil, t.TempDir())
	if err != nil {
		t.Fatalf("EstimateAndCheckSpace failed: %v", err)
	}
	if est.EstimatedBytes != 0 {
		t.Errorf("expected zero estimate, got %d", est.EstimatedBytes)
	}
}
