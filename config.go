package waterloo

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/anentropic/python-waterloo/doctype"
)

// Settings are the behavior knobs for annotation. The zero value is not
// usable; start from DefaultSettings.
type Settings struct {
	// AllowUntypedArgs renders "..." for an args section with missing types
	// instead of aborting the function.
	AllowUntypedArgs bool `toml:"allow_untyped_args"`

	// RequireReturnType aborts a function whose docstring documents no
	// return type instead of rendering None.
	RequireReturnType bool `toml:"require_return_type"`

	// ImportCollisionPolicy is one of IMPORT, NO_IMPORT, FAIL.
	ImportCollisionPolicy string `toml:"import_collision_policy"`

	// UnpathedTypePolicy is one of IGNORE, WARN, FAIL.
	UnpathedTypePolicy string `toml:"unpathed_type_policy"`
}

// DefaultSettings returns the permissive defaults: annotate as much as
// possible, warn about nothing fatal.
func DefaultSettings() Settings {
	return Settings{
		AllowUntypedArgs:      false,
		RequireReturnType:     false,
		ImportCollisionPolicy: "IMPORT",
		UnpathedTypePolicy:    "IGNORE",
	}
}

// CollisionPolicy returns the parsed import collision policy.
func (s Settings) CollisionPolicy() (doctype.CollisionPolicy, error) {
	return doctype.ParseCollisionPolicy(s.ImportCollisionPolicy)
}

// UnpathedPolicy returns the parsed unpathed type policy.
func (s Settings) UnpathedPolicy() (doctype.UnpathedPolicy, error) {
	return doctype.ParseUnpathedPolicy(s.UnpathedTypePolicy)
}

// Validate checks that both policy strings parse.
func (s Settings) Validate() error {
	if _, err := s.CollisionPolicy(); err != nil {
		return err
	}
	if _, err := s.UnpathedPolicy(); err != nil {
		return err
	}
	return nil
}

// LoadSettings reads settings from an optional TOML file, then applies
// WATERLOO_* environment variable overrides on top. An empty path skips the
// file and uses defaults plus environment.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		meta, err := toml.DecodeFile(path, &settings)
		if err != nil {
			return settings, fmt.Errorf("loading config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return settings, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
		}
	}

	if err := applyEnv(&settings); err != nil {
		return settings, err
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

func applyEnv(settings *Settings) error {
	if v, ok := os.LookupEnv("WATERLOO_ALLOW_UNTYPED_ARGS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WATERLOO_ALLOW_UNTYPED_ARGS: %w", err)
		}
		settings.AllowUntypedArgs = b
	}
	if v, ok := os.LookupEnv("WATERLOO_REQUIRE_RETURN_TYPE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WATERLOO_REQUIRE_RETURN_TYPE: %w", err)
		}
		settings.RequireReturnType = b
	}
	if v, ok := os.LookupEnv("WATERLOO_IMPORT_COLLISION_POLICY"); ok {
		settings.ImportCollisionPolicy = v
	}
	if v, ok := os.LookupEnv("WATERLOO_UNPATHED_TYPE_POLICY"); ok {
		settings.UnpathedTypePolicy = v
	}
	return nil
}
