// Package tagger stamps sequential identifiers onto the elements of a
// JSON-array document and writes the result to a derived output path.
package tagger

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cybergodev/json"
)

const (
	// IDField is the member name written to each object element.
	IDField = "id"

	outputDirName = "Outputs"
	outputSuffix  = "-mod"
)

// Sentinel errors for the per-file failure classes. Every failure returned
// by Stamp or Inspect either wraps one of these or falls into the
// unexpected class (I/O, permissions, disk). Callers match with errors.Is
// and treat all classes as non-fatal for the file that produced them.
var (
	ErrNotFound = errors.New("input is not an existing regular file")
	ErrParse    = errors.New("input is not valid JSON")
	ErrNotArray = errors.New("top-level JSON value is not an array")
)

// Report is the read-only census produced by Inspect.
type Report struct {
	Path        string `json:"path"`
	OutputPath  string `json:"output_path"`
	Elements    int    `json:"elements"`
	Objects     int    `json:"objects"`
	ExistingIDs int    `json:"existing_ids"`
}

// OutputPath derives the destination for an input path: same directory plus
// an Outputs subdirectory, same base name plus a -mod suffix, same extension.
// D/name.ext becomes D/Outputs/name-mod.ext.
func OutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)
	return filepath.Join(dir, outputDirName, base+outputSuffix+ext)
}

// Stamp reads a JSON-array file, sets id = position+1 on every object
// element (overwriting any existing id member), and writes the result to
// the derived output path. The output file is written only after parsing
// and validation succeed, so a failed run never leaves partial output.
// Returns the output path.
func Stamp(inputPath string) (string, error) {
	outPath := OutputPath(inputPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	dataset, err := loadArray(inputPath)
	if err != nil {
		return "", err
	}

	for i, element := range dataset {
		if obj, ok := element.(map[string]any); ok {
			obj[IDField] = i + 1
		}
	}

	// Encode through the standard encoder: it emits map keys in sorted
	// order, which keeps the formatting stable across runs. Two-space
	// indent, HTML escaping off so non-ASCII stays literal.
	var buf bytes.Buffer
	enc := stdjson.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(dataset); err != nil {
		return "", fmt.Errorf("encode %s: %w", inputPath, err)
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", outPath, err)
	}
	return outPath, nil
}

// Inspect parses and validates a file exactly like Stamp but performs no
// writes: it never creates the output directory and never touches the
// output file. The returned report counts elements, object elements, and
// object elements that already carry an id member.
func Inspect(inputPath string) (Report, error) {
	dataset, err := loadArray(inputPath)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Path:       inputPath,
		OutputPath: OutputPath(inputPath),
		Elements:   len(dataset),
	}
	for _, element := range dataset {
		obj, ok := element.(map[string]any)
		if !ok {
			continue
		}
		report.Objects++
		if _, exists := obj[IDField]; exists {
			report.ExistingIDs++
		}
	}
	return report, nil
}

// loadArray reads and decodes the input file, classifying failures into the
// sentinel taxonomy. The codec decodes integer literals to integer types,
// so values in the int64 range round-trip verbatim instead of through
// float64.
func loadArray(inputPath string) ([]any, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, inputPath)
		}
		return nil, fmt.Errorf("stat %s: %w", inputPath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, inputPath)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", inputPath, err)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, inputPath, err)
	}

	dataset, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotArray, inputPath)
	}
	return dataset, nil
}
