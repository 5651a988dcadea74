package config

import (
	"fmt"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
	"git.home.luguber.info/inful/scriptpack/internal/minify"
)

// ValidateConfig validates a defaulted and normalized configuration.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateFragments(); err != nil {
		return err
	}
	if err := cv.validateVariants(); err != nil {
		return err
	}
	if err := cv.validateDestinations(); err != nil {
		return err
	}
	if err := cv.validateMarker(); err != nil {
		return err
	}
	if err := cv.validatePaths(); err != nil {
		return err
	}
	return cv.validateMinifier()
}

func (cv *configurationValidator) validateFragments() error {
	if len(cv.config.Fragments) == 0 {
		return errors.ValidationError("at least one fragment must be configured").Build()
	}
	for i, f := range cv.config.Fragments {
		if f.Path == "" {
			return errors.ValidationError("fragment path cannot be empty").
				WithContext("field", fmt.Sprintf("fragments[%d].path", i)).
				Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateVariants() error {
	if len(cv.config.Variants) == 0 {
		return errors.ValidationError("at least one variant must be configured").Build()
	}
	names := make(map[string]bool, len(cv.config.Variants))
	for i, v := range cv.config.Variants {
		if v.Name == "" {
			return errors.ValidationError("variant name cannot be empty").
				WithContext("field", fmt.Sprintf("variants[%d].name", i)).
				Build()
		}
		if names[v.Name] {
			return errors.ValidationError("duplicate variant name").WithContext("variant", v.Name).Build()
		}
		names[v.Name] = true
	}
	return nil
}

// validateDestinations rejects two outputs (assembled, minified or manifest)
// resolving to the same file.
func (cv *configurationValidator) validateDestinations() error {
	owners := make(map[string]string)
	claim := func(file, owner string) error {
		if prev, ok := owners[file]; ok {
			return errors.ValidationError("duplicate destination file").
				WithContext("path", file).
				WithContext("first", prev).
				WithContext("second", owner).
				Build()
		}
		owners[file] = owner
		return nil
	}

	for _, v := range cv.config.Variants {
		if err := claim(v.File, v.Name); err != nil {
			return err
		}
		if v.WantsMinified() {
			if err := claim(cv.config.MinifiedFile(v), v.Name+" (minified)"); err != nil {
				return err
			}
		}
	}
	if cv.config.Manifest != "" {
		return claim(cv.config.Manifest, "manifest")
	}
	return nil
}

func (cv *configurationValidator) validateMarker() error {
	if cv.config.Marker != "" {
		return nil
	}
	filterable := slices.ContainsFunc(cv.config.Fragments, func(f Fragment) bool { return f.Filterable })
	strips := slices.ContainsFunc(cv.config.Variants, func(v Variant) bool { return v.StripMarked })
	if filterable && strips {
		return errors.ValidationError("marker cannot be empty when a variant strips marked lines").
			WithContext("field", "marker").
			Build()
	}
	return nil
}

// validatePaths ensures no input or output leaves the project root.
func (cv *configurationValidator) validatePaths() error {
	check := func(field, p string) error {
		if EscapesRoot(p) {
			return errors.ValidationError("path escapes project root").
				WithContext("field", field).
				WithContext("path", p).
				Build()
		}
		return nil
	}

	if cv.config.OutputDir == "" {
		return errors.ValidationError("output_dir cannot be empty").Build()
	}
	if err := check("output_dir", cv.config.OutputDir); err != nil {
		return err
	}
	if cv.config.License != "" {
		if err := check("license", cv.config.License); err != nil {
			return err
		}
	}
	for i, f := range cv.config.Fragments {
		if err := check(fmt.Sprintf("fragments[%d].path", i), f.Path); err != nil {
			return err
		}
	}
	for _, v := range cv.config.Variants {
		if err := check("variants."+v.Name+".file", filepath.Join(cv.config.OutputDir, v.File)); err != nil {
			return err
		}
	}
	if cv.config.Manifest != "" {
		return check("manifest", filepath.Join(cv.config.OutputDir, cv.config.Manifest))
	}
	return nil
}

func (cv *configurationValidator) validateMinifier() error {
	if slices.Contains(minify.Engines(), cv.config.Minifier) {
		return nil
	}
	return errors.ValidationError("unknown minifier engine").
		WithContext("minifier", cv.config.Minifier).
		WithContext("supported", minify.Engines()).
		Build()
}
