// Package bundle reads data bundles and raw advisor outputs from disk.
package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/models"
	"gopkg.in/yaml.v3"
)

// Format is a bundle file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported bundle format: %s (expected .json, .yaml or .yml)", path)
	}
}

// LoadFile reads a bundle from path. The ticker is normalized; a bundle
// without one takes the file name stem.
func LoadFile(path string) (models.DataBundle, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return models.DataBundle{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.DataBundle{}, fmt.Errorf("failed to read bundle %s: %w", path, err)
	}

	b, err := Decode(data, format)
	if err != nil {
		return models.DataBundle{}, fmt.Errorf("failed to parse bundle %s: %w", path, err)
	}

	if b.Ticker == "" {
		b.Ticker = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	b.Ticker = common.NormalizeTicker(b.Ticker)
	return b, nil
}

// Decode parses bundle data in the given format. Unknown fields are ignored
// since upstream collectors attach extra metadata.
func Decode(data []byte, format Format) (models.DataBundle, error) {
	var b models.DataBundle

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&b); err != nil {
			return models.DataBundle{}, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &b); err != nil {
			return models.DataBundle{}, err
		}
	default:
		return models.DataBundle{}, fmt.Errorf("unsupported bundle format: %s", format)
	}

	return b, nil
}

// ReadOutputs reads each advisor's raw output file. files maps advisor key
// to path.
func ReadOutputs(files map[string]string) (map[string]string, error) {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outputs := make(map[string]string, len(files))
	for _, advisor := range keys {
		if strings.TrimSpace(advisor) == "" {
			return nil, fmt.Errorf("advisor key is required for output %s", files[advisor])
		}
		data, err := os.ReadFile(files[advisor])
		if err != nil {
			return nil, fmt.Errorf("failed to read output for %s: %w", advisor, err)
		}
		outputs[advisor] = string(data)
	}
	return outputs, nil
}
