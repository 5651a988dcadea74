package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated values and makes every path relative
// to Root. It mutates cfg in place. Paths that cannot be expressed relative to
// Root are left as-is for validation to reject.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	if c.Root == "" {
		c.Root = "."
	}

	if m := strings.ToLower(strings.TrimSpace(c.Minifier)); m != c.Minifier {
		res.Warnings = append(res.Warnings, warnChanged("minifier", c.Minifier, m))
		c.Minifier = m
	}

	c.OutputDir = normalizePath("output_dir", c.Root, c.OutputDir, res)
	if c.License != "" {
		c.License = normalizePath("license", c.Root, c.License, res)
	}
	for i := range c.Fragments {
		label := fmt.Sprintf("fragments[%d].path", i)
		c.Fragments[i].Path = normalizePath(label, c.Root, c.Fragments[i].Path, res)
	}
	for i := range c.Variants {
		v := &c.Variants[i]
		if n := strings.TrimSpace(v.Name); n != v.Name {
			res.Warnings = append(res.Warnings, warnChanged(fmt.Sprintf("variants[%d].name", i), v.Name, n))
			v.Name = n
		}
		if f := filepath.Clean(v.File); v.File != "" && f != v.File {
			res.Warnings = append(res.Warnings, warnChanged(fmt.Sprintf("variants[%d].file", i), v.File, f))
			v.File = f
		}
	}
	if c.Manifest != "" {
		if m := filepath.Clean(c.Manifest); m != c.Manifest {
			res.Warnings = append(res.Warnings, warnChanged("manifest", c.Manifest, m))
			c.Manifest = m
		}
	}
	return res, nil
}

// normalizePath cleans p and rewrites absolute paths under root as relative ones.
func normalizePath(label, root, p string, res *NormalizationResult) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return trimmed
	}
	cleaned := filepath.Clean(trimmed)
	if filepath.IsAbs(cleaned) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return cleaned
		}
		rel, err := filepath.Rel(absRoot, cleaned)
		if err != nil {
			return cleaned
		}
		cleaned = rel
	}
	if cleaned != p {
		res.Warnings = append(res.Warnings, warnChanged(label, p, cleaned))
	}
	return cleaned
}

// EscapesRoot reports whether a cleaned relative path leaves its root.
func EscapesRoot(p string) bool {
	return filepath.IsAbs(p) || p == ".." || strings.HasPrefix(p, ".."+string(filepath.Separator))
}

func warnChanged(field string, from, to interface{}) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}
