package normalize

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// LoadRawReportsJSONL reads a newline-delimited JSON file of RawReport
// records. Downloading or extracting the upstream quarterly archive is an
// external concern; this only reads an already-staged local file.
func LoadRawReportsJSONL(path string) ([]RawReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening raw reports file: %w", err)
	}
	defer f.Close()

	var reports []RawReport
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r RawReport
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("parsing raw report at line %d: %w", lineNo, err)
		}
		reports = append(reports, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading raw reports file: %w", err)
	}
	return reports, nil
}
