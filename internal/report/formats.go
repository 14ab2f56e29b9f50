// Package report renders analysis runs for terminals, files and the TUI.
package report

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/pkg/logger"
	"github.com/joshsymonds/rasa/pkg/pathutil"
)

// Format represents a report rendering strategy.
type Format interface {
	// Render writes the run in the format's representation.
	Render(w io.Writer, run *models.AnalysisRun) error
	// Name returns the format identifier (e.g., "text", "html").
	Name() string
	// Description returns a human-readable description of the format.
	Description() string
}

// FormatFactory builds a Format. log is used by formats that can fail
// while rendering.
type FormatFactory func(log logger.Logger) (Format, error)

var registry = struct {
	sync.RWMutex
	factories map[string]FormatFactory
}{factories: map[string]FormatFactory{}}

// RegisterFormat adds a format under name. Registering a name twice panics.
func RegisterFormat(name string, factory FormatFactory) {
	if factory == nil {
		panic("report: nil factory for format " + name)
	}

	registry.Lock()
	defer registry.Unlock()
	if _, taken := registry.factories[name]; taken {
		panic("report: format " + name + " registered twice")
	}
	registry.factories[name] = factory
}

// GetFormat builds the format registered under name.
func GetFormat(name string, log logger.Logger) (Format, error) {
	registry.RLock()
	factory, ok := registry.factories[name]
	registry.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown report format %q (want %s)", name, strings.Join(ListFormats(), ", "))
	}
	return factory(log)
}

// ListFormats returns the registered format names, sorted.
func ListFormats() []string {
	registry.RLock()
	defer registry.RUnlock()
	return slices.Sorted(maps.Keys(registry.factories))
}

// RenderString renders run with f into a string.
func RenderString(f Format, run *models.AnalysisRun) (string, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf, run); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile renders run into outputPath. The parent directory must exist.
func WriteFile(f Format, run *models.AnalysisRun, outputPath string, log logger.Logger) (err error) {
	validOutputPath, err := pathutil.ValidateOutputPath(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	file, err := os.Create(filepath.Clean(validOutputPath))
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	if err := f.Render(file, run); err != nil {
		return fmt.Errorf("rendering %s report: %w", f.Name(), err)
	}

	log.Info("Wrote report", "format", f.Name(), "path", validOutputPath)
	return nil
}

func init() {
	RegisterFormat("text", func(_ logger.Logger) (Format, error) {
		return NewTextFormat(), nil
	})

	RegisterFormat("json", func(_ logger.Logger) (Format, error) {
		return &jsonFormat{}, nil
	})

	RegisterFormat("markdown", func(_ logger.Logger) (Format, error) {
		return &markdownFormat{}, nil
	})

	RegisterFormat("html", func(log logger.Logger) (Format, error) {
		return NewHTMLFormat(log)
	})
}
