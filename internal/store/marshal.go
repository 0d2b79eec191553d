package store

import (
	"fmt"

	"github.com/roach88/tlink/internal/ir"
)

// marshalRecord converts a canonical Object to JSON TEXT for storage.
func marshalRecord(what string, obj ir.Object) (string, error) {
	if obj == nil {
		obj = ir.Object{}
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", what, err)
	}
	return string(data), nil
}

// assertionID is ir.AssertionID with a storage-friendly error.
func assertionID(a ir.Assertion) (string, error) {
	id, err := ir.AssertionID(a)
	if err != nil {
		return "", fmt.Errorf("assertion %s: %w", a, err)
	}
	return id, nil
}
