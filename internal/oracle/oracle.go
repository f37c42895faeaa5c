// Package oracle implements clients for the external grading service. A
// client returns the raw model response; parsing the numeric grade out of
// it belongs to the grading coordinator.
package oracle

import "context"

// Payload is one grading request: the newline-combined text of a
// similarity group plus the context it is judged against.
type Payload struct {
	CombinedText         string
	Description          string
	SupplementaryContext string
}

// Oracle grades a payload and returns the model's free-text response.
type Oracle interface {
	Grade(ctx context.Context, p Payload) (string, error)
}
