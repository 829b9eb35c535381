// Package config loads fichas settings from ~/.config/fichas/config.toml.
//
// Every field is optional:
//
//	output_dir = "~/Documentos/fichas"
//	log_file = "~/.local/state/fichas/fichas.log"
//
//	[api]
//	base_url = "https://amaro-api.onrender.com"
//
// A missing file yields Default(). FICHAS_API_BASE_URL overrides the file,
// and callers apply command line overrides with WithBaseURL and
// WithOutputDir. Paths starting with ~ are expanded and made absolute.
//
// The request timeout and endpoint paths are fixed and not configurable.
package config
