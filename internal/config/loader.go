package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// candidateNames are the config file names probed during discovery,
// in priority order.
var candidateNames = []string{
	"gmxpipe.yaml",
	"gmxpipe.yml",
	"gmxpipe.jsonc",
	"gmxpipe.json",
}

// Load returns the effective configuration for a run.
//
// When explicitPath is non-empty the file must exist and parse; when it
// is empty, Discover walks upward from startDir and a missing file is
// not an error — the defaults are returned as-is. Validation is left to
// the caller, which still has flag overlays to apply.
func Load(explicitPath, startDir string) (Config, error) {
	cfg := Default()

	path := explicitPath
	if path == "" {
		found, err := Discover(startDir)
		if err != nil {
			return cfg, err
		}
		if found == "" {
			return cfg, nil
		}
		path = found
	}

	if err := parseFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Discover walks upward from startDir looking for a gmxpipe config file.
// It returns the first match, or "" when no ancestor directory carries
// one. Walking up lets a project keep one config at its root while
// pipelines run in per-simulation subdirectories.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", model.WrapCLIError(model.ExitConfigError, "failed to resolve working directory", err)
	}

	for {
		for _, name := range candidateNames {
			candidate := filepath.Join(dir, name)
			if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// parseFile reads path into cfg, choosing the decoder by extension.
// Fields absent from the file keep the values already in cfg.
func parseFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("failed to parse YAML config %s", path), err)
		}
	case ".jsonc", ".json":
		// jsonc.ToJSON strips comments and trailing commas, producing
		// plain JSON the standard decoder accepts. The same approach the
		// devcontainer ecosystem uses for its JSONC config files.
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("failed to parse JSONC config %s", path), err)
		}
	default:
		return model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("unsupported config file extension: %s", path))
	}
	return nil
}
