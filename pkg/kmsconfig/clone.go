package kmsconfig

import (
	"fmt"

	"github.com/mitchellh/copystructure"
)

// cloneConfig returns a copy of config that shares no maps, slices or pointers with it.
func cloneConfig(config map[string]any) (map[string]any, error) {
	copied, err := copystructure.Copy(config)
	if err != nil {
		return nil, fmt.Errorf("failed to clone config: %w", err)
	}

	clone, ok := copied.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to clone config: got %T", copied)
	}

	return clone, nil
}
