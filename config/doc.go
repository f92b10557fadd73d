// Package config loads and validates the service configuration.
//
// Configuration is layered: compiled-in defaults, then an optional YAML
// file, then environment variables with the SENTINEL_ prefix (dots become
// underscores, so engine.check_interval is SENTINEL_ENGINE_CHECK_INTERVAL).
// Validation collects every violation instead of stopping at the first, so
// an operator fixes a bad file in one round trip.
package config
