// Package dataprocessing holds the indicator pipeline: file parsing,
// monthly alignment and gap filling, composite indices, linear forecasting,
// correlation, and card-level summaries. Everything operates on the domain
// types and never touches the filesystem layout directly; file discovery
// lives in internal/files.
package dataprocessing
