// Package titles rewrites mangled clipping title lines to canonical
// "Title (Author)" form. Devices write ASINs, truncated names, or
// underscored titles into My Clippings.txt; the fixup map restores them.
package titles

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tailscale/hujson"
)

// Rewriter applies an exact-match title fixup map to title lines.
// The zero value rewrites nothing.
type Rewriter struct {
	rules map[string]string
}

// Load reads the fixup map from a JSONC file (comments and trailing commas
// allowed, so the map stays hand-editable). An empty path disables rewriting.
func Load(path string) (*Rewriter, error) {
	if path == "" {
		return &Rewriter{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read titles file: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parse titles file %s: %w", path, err)
	}

	var rules map[string]string
	if err := json.Unmarshal(standardized, &rules); err != nil {
		return nil, fmt.Errorf("parse titles file %s: %w", path, err)
	}

	return &Rewriter{rules: rules}, nil
}

// Apply returns the canonical line for a known title line, or the line
// unchanged.
func (r *Rewriter) Apply(line string) string {
	if r == nil || len(r.rules) == 0 {
		return line
	}
	if fixed, ok := r.rules[strings.TrimSpace(line)]; ok {
		return fixed
	}
	return line
}

// Len reports the number of loaded fixup rules.
func (r *Rewriter) Len() int {
	return len(r.rules)
}
