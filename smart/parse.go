package smart

import (
	"encoding/json"
	"errors"
	"strings"
)

// berthDataWrapper matches the {"BERTHDATA":[...]} envelope the reference
// feed sometimes uses.
type berthDataWrapper struct {
	BerthData []StepRecord `json:"BERTHDATA"`
}

// ParseRecords decodes SMART reference data. The feed has been observed as a
// bare JSON array, a BERTHDATA-wrapped object, a single object, and
// newline-delimited JSON; all four are accepted. The second return value is
// the number of malformed newline-delimited entries skipped.
func ParseRecords(content []byte) ([]StepRecord, int, error) {
	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return nil, 0, errors.New("smart data is empty")
	}

	var arr []StepRecord
	if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
		return arr, 0, nil
	}

	var wrapped berthDataWrapper
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil && wrapped.BerthData != nil {
		if len(wrapped.BerthData) == 0 {
			return nil, 0, errors.New("BERTHDATA array is empty")
		}
		return wrapped.BerthData, 0, nil
	}

	var single StepRecord
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil && !strings.Contains(trimmed, "\n") {
		return []StepRecord{single}, 0, nil
	}

	// Newline-delimited JSON: one record per line, bad lines skipped.
	var out []StepRecord
	skipped := 0
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec StepRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, skipped, errors.New("smart data in unrecognized format")
	}
	return out, skipped, nil
}
