// Package config loads and validates process configuration for both the
// catalog and store services. Sources are merged with the precedence
// flags > environment (MEMECAT_ prefix) > config files > defaults.
package config
