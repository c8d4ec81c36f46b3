package batch

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for input files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported batch file format")

// document is the shape of structured batch files:
//
//	inputs = ["2+3", "x^2 - 4 = 0"]
type document struct {
	Inputs []string `json:"inputs" toml:"inputs" yaml:"inputs"`
}

// LoadFile reads inputs from path. The extension selects the format: .json,
// .toml, .yaml/.yml, or one input per line for anything else. A path of "-"
// reads lines from stdin.
func LoadFile(path string) ([]string, error) {
	if path == "-" {
		return ReadLines(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes batch inputs in the format named by ext.
func Parse(ext string, data []byte) ([]string, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return parseJSON(data)
	case ".toml":
		var doc document
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
		return doc.Inputs, nil
	case ".yaml", ".yml":
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
		return doc.Inputs, nil
	case ".txt", "":
		return ReadLines(strings.NewReader(string(data)))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// parseJSON accepts either a bare array of strings or an {"inputs": [...]}
// object.
func parseJSON(data []byte) ([]string, error) {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	return doc.Inputs, nil
}

// ReadLines returns the non-blank lines of r. Lines starting with '#' are
// comments.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}
	return out, nil
}
