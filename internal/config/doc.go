// Package config provides application configuration and path management.
//
// Configuration is loaded from environment variables with the IND prefix,
// optionally merged over a config.yaml file; environment always wins. The
// Paths type is the single source of truth for the on-disk data layout
// (raw, processed, forecasts, exports), and the catalog carries default
// metadata for every indicator the dashboard tracks.
package config
