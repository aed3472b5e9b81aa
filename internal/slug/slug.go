// Package slug generates unique URL identifiers of the form <prefix>-xxxxxxxx.
package slug

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// MaxProbeAttempts bounds the -N suffix search before falling back to a
	// random suffix.
	MaxProbeAttempts = 100
	// MaxInsertAttempts bounds regeneration when the insert itself hits the
	// unique index.
	MaxInsertAttempts = 3
)

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Random returns 8 lowercase hex characters.
func Random() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Base returns <prefix>-<8 random chars>.
func Base(prefix string) string {
	return prefix + "-" + Random()
}

// Unique probes base, base-1, base-2 ... and returns the first free one. After
// MaxProbeAttempts it appends a fresh random suffix without probing further.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for counter := 1; counter <= MaxProbeAttempts; counter++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
	return base + "-" + Random(), nil
}

// Generate returns a unique slug for prefix.
func Generate(ctx context.Context, prefix string, exists ExistsFunc) (string, error) {
	return Unique(ctx, Base(prefix), exists)
}

// Insert generates a slug and runs insert with it, generating a new one when
// the insert loses a race on the unique index.
func Insert(ctx context.Context, prefix string, exists ExistsFunc, insert func(slug string) error) (string, error) {
	var lastErr error
	for attempt := 0; attempt < MaxInsertAttempts; attempt++ {
		s, err := Generate(ctx, prefix, exists)
		if err != nil {
			return "", err
		}
		lastErr = insert(s)
		if lastErr == nil {
			return s, nil
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return "", lastErr
		}
	}
	return "", lastErr
}
