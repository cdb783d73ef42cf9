// Package config loads sessionkit settings.
//
// Settings come from built-in defaults, then an optional YAML (or JSON) file,
// then SESSIONKIT_* environment variables. Validate reports the first
// invalid field.
package config
