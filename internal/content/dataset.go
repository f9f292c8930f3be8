package content

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeDataset decodes a list of records, choosing the codec from the
// file extension. A top-level object with an "items" key is also accepted.
func DecodeDataset[T any](name string, data []byte) ([]T, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".json":
		var items []T
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
		var wrapped struct {
			Items []T `json:"items"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return wrapped.Items, nil
	case ".yaml", ".yml":
		var items []T
		if err := yaml.Unmarshal(data, &items); err == nil {
			return items, nil
		}
		var wrapped struct {
			Items []T `yaml:"items"`
		}
		if err := yaml.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return wrapped.Items, nil
	}
	return nil, fmt.Errorf("unsupported dataset format %q", ext)
}
