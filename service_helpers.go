package main

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// parseInt64 extracts an int64 from a Sidekiq payload argument that may be encoded
// either as a JSON number or as a quoted string.
func parseInt64(raw json.RawMessage) (int64, error) {
	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "" {
			return 0, fmt.Errorf("empty string")
		}
		return strconv.ParseInt(asString, 10, 64)
	}

	return 0, fmt.Errorf("unsupported arg: %s", string(raw))
}

// decodeJob validates an AnalyzeSample payload: args are the sample path and
// a positive interval count.
func decodeJob(payload []byte) (analyzeJob, error) {
	var job sidekiqJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return analyzeJob{}, fmt.Errorf("invalid job json: %w", err)
	}
	if job.Class != analyzeJobClass {
		return analyzeJob{}, fmt.Errorf("unsupported job class %q", job.Class)
	}
	if len(job.Args) != 2 {
		return analyzeJob{}, fmt.Errorf("job %s: want 2 args, got %d", job.JID, len(job.Args))
	}

	var path string
	if err := json.Unmarshal(job.Args[0], &path); err != nil || path == "" {
		return analyzeJob{}, fmt.Errorf("job %s: missing sample path", job.JID)
	}
	n, err := parseInt64(job.Args[1])
	if err != nil {
		return analyzeJob{}, fmt.Errorf("job %s: interval count: %w", job.JID, err)
	}
	if n <= 0 {
		return analyzeJob{}, fmt.Errorf("job %s: interval count must be positive, got %d", job.JID, n)
	}
	return analyzeJob{path: path, intervals: int(n)}, nil
}
