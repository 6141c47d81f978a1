package services

import "errors"

// Sentinel errors shared across the service layer. The HTTP handlers map
// these onto problem responses.
var (
	ErrIndicatorNotFound = errors.New("indicator not found")
	ErrEmptyDataset      = errors.New("indicator has no usable observations")
)
