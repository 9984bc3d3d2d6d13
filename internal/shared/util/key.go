package util

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ObjectKey builds a collision-free storage key "<prefix>/<uuid>_<name>".
func ObjectKey(prefix, fileName string) (string, error) {
	name, err := SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	finalName := uuid.NewString() + "_" + name
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return finalName, nil
	}
	return path.Join(prefix, finalName), nil
}
