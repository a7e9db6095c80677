package literature

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

// LoadAbstractsJSONL reads a newline-delimited JSON file of domain.Abstract
// records. An empty path is a valid "no literature staged" configuration,
// not an error: it returns a nil slice, as it does for a path that does not
// exist, and cmd/pipeline then runs without a literature source. Fetching abstracts from an external literature API is
// out of scope here; this only reads an already-staged local file.
func LoadAbstractsJSONL(path string) ([]domain.Abstract, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening literature abstracts file: %w", err)
	}
	defer f.Close()

	var abstracts []domain.Abstract
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var a domain.Abstract
		if err := json.Unmarshal(line, &a); err != nil {
			return nil, fmt.Errorf("parsing abstract at line %d: %w", lineNo, err)
		}
		abstracts = append(abstracts, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading literature abstracts file: %w", err)
	}
	return abstracts, nil
}
