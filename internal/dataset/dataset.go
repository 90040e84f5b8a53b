// Package dataset loads and validates chapter fixtures.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/pyqdash/internal/model"
)

// EmbeddedSource names the built-in fixture.
const EmbeddedSource = "embedded:chapters.json"

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Format is a dataset encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

//go:embed chapters.json
var embeddedChapters []byte

// Embedded returns the built-in PYQ dataset.
func Embedded() ([]model.Chapter, error) {
	chapters, err := Decode(bytes.NewReader(embeddedChapters), FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode embedded dataset: %w", err)
	}
	if err := Validate(chapters); err != nil {
		return nil, fmt.Errorf("invalid embedded dataset: %w", err)
	}
	return chapters, nil
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s (use .json, .yaml or .yml)", ErrUnsupportedFormat, path)
}

// LoadFile reads and validates a dataset file.
func LoadFile(path string) ([]model.Chapter, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dataset.
			_ = cerr
		}
	}()
	chapters, err := Decode(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := Validate(chapters); err != nil {
		return nil, fmt.Errorf("invalid dataset %s: %w", path, err)
	}
	return chapters, nil
}

// Decode parses a dataset in the given format. Missing year maps decode as empty.
func Decode(r io.Reader, format Format) ([]model.Chapter, error) {
	var chapters []model.Chapter
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&chapters); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&chapters); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	for i := range chapters {
		if chapters[i].YearCounts == nil {
			chapters[i].YearCounts = map[string]int{}
		}
	}
	return chapters, nil
}

// Validate checks every record and reports all problems at once.
func Validate(chapters []model.Chapter) error {
	var errs []error
	seen := map[model.Subject]map[string]int{}
	for i, ch := range chapters {
		at := fmt.Sprintf("record %d (%q)", i, ch.Name)
		if !slices.Contains(model.Subjects(), ch.Subject) {
			errs = append(errs, fmt.Errorf("%s: unknown subject %q", at, ch.Subject))
		}
		if strings.TrimSpace(ch.Name) == "" {
			errs = append(errs, fmt.Errorf("%s: chapter name is empty", at))
		}
		if !slices.Contains(model.Statuses(), ch.Status) {
			errs = append(errs, fmt.Errorf("%s: unknown status %q", at, ch.Status))
		}
		if ch.Solved < 0 {
			errs = append(errs, fmt.Errorf("%s: questionSolved is negative", at))
		}
		for year, n := range ch.YearCounts {
			if n < 0 {
				errs = append(errs, fmt.Errorf("%s: negative count for year %s", at, year))
			}
		}
		if seen[ch.Subject] == nil {
			seen[ch.Subject] = map[string]int{}
		}
		if prev, ok := seen[ch.Subject][ch.Name]; ok {
			errs = append(errs, fmt.Errorf("%s: duplicate chapter in %s (first at record %d)", at, ch.Subject, prev))
		} else {
			seen[ch.Subject][ch.Name] = i
		}
	}
	return errors.Join(errs...)
}
