// Package config loads the optional gmxpipe configuration file.
//
// The file is discovered by walking upward from the working directory
// and may be written as YAML (gmxpipe.yaml / gmxpipe.yml) or as JSON
// with comments (gmxpipe.jsonc / gmxpipe.json). JSONC input is stripped
// to plain JSON with github.com/tidwall/jsonc before parsing with the
// standard encoding/json library.
//
// Every field has a default matching the values the pipelines were
// originally hardwired to, so the file is entirely optional. CLI flags
// override the file, and the file overrides the defaults.
package config
