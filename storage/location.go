// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"fmt"
	"strings"
)

const diskPrefix = "disk+"

// FromLocation selects a Handle from a storage_location configuration
// value: "memory" keeps state in process memory, "disk+<path>" persists it
// as JSON at path. Any other value is a fatal configuration error.
func FromLocation(location string) (Handle, error) {
	switch {
	case location == "memory":
		return NewMemoryHandle(), nil
	case strings.HasPrefix(location, diskPrefix):
		path := strings.TrimPrefix(location, diskPrefix)
		if path == "" {
			return nil, fmt.Errorf("storage location %q has an empty path", location)
		}
		return NewFileHandle(path), nil
	default:
		return nil, fmt.Errorf("unknown storage location %q", location)
	}
}
