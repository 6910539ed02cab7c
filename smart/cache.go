package smart

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// cacheFile is the on-disk snapshot of the raw reference records. Caching
// records rather than the built graph keeps the format independent of the
// adjacency representation.
type cacheFile struct {
	FetchedAt time.Time
	Records   []StepRecord
}

// SaveCache writes the records to path as a gob snapshot.
func SaveCache(path string, records []StepRecord, fetchedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("smart cache dir: %w", err)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cacheFile{FetchedAt: fetchedAt, Records: records}); err != nil {
		return fmt.Errorf("encode smart cache: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// LoadCache reads a cached snapshot, rejecting it when older than maxAge.
func LoadCache(path string, maxAge time.Duration, now time.Time) ([]StepRecord, time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	var cf cacheFile
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&cf); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode smart cache: %w", err)
	}
	if maxAge > 0 && now.Sub(cf.FetchedAt) > maxAge {
		return nil, cf.FetchedAt, fmt.Errorf("smart cache expired (fetched %s)", cf.FetchedAt.Format(time.RFC3339))
	}
	return cf.Records, cf.FetchedAt, nil
}
