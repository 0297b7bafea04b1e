// Package files implements local persistence for downloaded logs: directory
// creation, plain and gzip-compressed file writes, JSON documents, and a
// best-effort disk-space estimate.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/log"
	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/salesforce"
)

// perFileOverhead is added to each record's declared length when estimating
// disk usage, covering filesystem slack and the metadata sidecar.
const perFileOverhead = 1024

// SpaceEstimate is the outcome of a pre-download disk check. OK is false
// only when free space could be determined and is insufficient.
type SpaceEstimate struct {
	OK             bool
	EstimatedBytes int64
}

// DiskStore writes logs and metadata under a base directory on the local
// filesystem.
type DiskStore struct {
	logger *log.Logger
}

func NewDiskStore() *DiskStore {
	return &DiskStore{logger: log.ForComponent("files")}
}

// EnsureDirectory creates path (and parents) if absent.
func (s *DiskStore) EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// WriteFile persists content at path. A ".gz" suffix selects gzip
// compression; Apex debug logs are highly repetitive text and typically
// compress to a tenth of their raw size.
func (s *DiskStore) WriteFile(path string, content []byte) error {
	if strings.HasSuffix(path, ".gz") {
		return s.writeGzip(path, content)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (s *DiskStore) writeGzip(path string, content []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	gw := gzip.NewWriter(f)
	if _, err := gw.Write(content); err != nil {
		_ = gw.Close()
		_ = f.Close()
		return fmt.Errorf("compressing %s: %w", path, err)
	}
	if err := gw.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("finishing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// WriteJSON marshals v with indentation and writes it at path.
func (s *DiskStore) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	return s.WriteFile(path, data)
}

// EstimateAndCheckSpace sums the declared length of each record plus a fixed
// per-file overhead and compares the total against the free space of the
// filesystem holding dir. When free space cannot be determined the check
// passes with only the estimate filled in.
func (s *DiskStore) EstimateAndCheckSpace(records []salesforce.LogRecord, dir string) (SpaceEstimate, error) {
	var estimated int64
	for _, r := range records {
		estimated += r.LogLength + perFileOverhead
	}

	est := SpaceEstimate{OK: true, EstimatedBytes: estimated}

	probe := dir
	if _, err := os.Stat(probe); err != nil {
		probe = filepath.Dir(dir)
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(probe, &stat); err != nil {
		s.logger.Debugf("statfs %s failed, skipping free-space check: %v", probe, err)
		return est, nil
	}

	free := int64(stat.Bavail) * stat.Bsize
	if free < estimated {
		s.logger.Warnf("estimated %d bytes needed but only %d free at %s", estimated, free, probe)
		est.OK = false
	}
	return est, nil
}
