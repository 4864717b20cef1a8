package dictionary

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

const bom = "\uFEFF"

// FileSource reads a UTF-8 text file holding one term per line.
type FileSource struct {
	Path string
}

func (s FileSource) Terms(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readLines(f)
}

func (s FileSource) String() string {
	return "file " + s.Path
}

// JSONSource reads a JSON array of {"text": "..."} objects.
type JSONSource struct {
	Path string
}

type word struct {
	Text string `json:"text"`
}

func (s JSONSource) Terms(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}

	var words []word
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.Path, err)
	}

	terms := make([]string, 0, len(words))
	for _, w := range words {
		terms = append(terms, w.Text)
	}
	return terms, nil
}

func (s JSONSource) String() string {
	return "json " + s.Path
}

// readLines returns every line of r. On a read error the lines read so far
// are returned along with the error.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, bom)
		}
		lines = append(lines, line)
	}

	return lines, sc.Err()
}
