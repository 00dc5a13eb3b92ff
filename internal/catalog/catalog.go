// Package catalog holds the product categories to scrape: search keywords
// and seed listing URLs per category.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"dario.cat/mergo"
	"github.com/titanous/json5"

	"b2b-market-scraper/pkg/logger"
)

type Category struct {
	Keywords []string `json:"keywords"`
	URLs     []string `json:"urls"`
}

// Catalog maps a category label to its search terms.
type Catalog map[string]Category

// Default is used when no catalog file exists.
func Default() Catalog {
	return Catalog{
		"industrial_machinery": {
			Keywords: []string{"industrial machinery", "manufacturing equipment", "heavy machinery"},
			URLs: []string{
				"https://www.indiamart.com/industrial-machinery/",
				"https://www.indiamart.com/manufacturing-machines/",
			},
		},
		"electronics": {
			Keywords: []string{"electronics", "electronic components", "electrical equipment"},
			URLs: []string{
				"https://www.indiamart.com/electronics-electrical/",
				"https://www.indiamart.com/electronic-components/",
			},
		},
		"textiles": {
			Keywords: []string{"textiles", "fabric", "yarn", "clothing"},
			URLs: []string{
				"https://www.indiamart.com/textiles/",
				"https://www.indiamart.com/fabric/",
			},
		},
	}
}

// Names returns the category labels in sorted order.
func (c Catalog) Names() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Load reads path and merges name.local.ext over it. When neither file
// exists the default catalog is returned.
func Load(path string, log *logger.Logger) (Catalog, error) {
	if log == nil {
		log = logger.Nop()
	}
	c, err := readMerged[Catalog](path, log)
	if errors.Is(err, os.ErrNotExist) {
		log.Infof("no catalog at %s, using built-in categories", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if len(c) == 0 {
		return nil, fmt.Errorf("catalog: %s defines no categories", path)
	}
	return c, nil
}

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// readMerged decodes name then name.local.ext (higher priority) as JSON5.
// os.ErrNotExist is returned only when both are missing.
func readMerged[T any](name string, log *logger.Logger) (T, error) {
	var out T
	found := false

	prefix, ext := splitExt(filepath.Base(name))
	localPath := filepath.Join(filepath.Dir(name), fmt.Sprintf("%s.local.%s", prefix, ext))

	base, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(base) > 0 {
		if err := json5.Unmarshal(base, &out); err != nil {
			return out, fmt.Errorf("%s: %w", name, err)
		}
		found = true
	}

	local, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(local) > 0 {
		var override T
		if err := json5.Unmarshal(local, &override); err != nil {
			return out, fmt.Errorf("%s: %w", localPath, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		log.Infof("merged local catalog overrides from %s", localPath)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}
