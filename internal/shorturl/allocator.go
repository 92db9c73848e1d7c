package shorturl

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// CodeGenerator generates candidate short codes.
type CodeGenerator func() string

// UUIDGenerator returns codes derived from the leading characters of a
// random 128-bit UUID, dashes removed.
func UUIDGenerator(length int) CodeGenerator {
	return func() string {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")

		return id[:length]
	}
}

// maxGenerateAttempts bounds how many fresh draws Allocate makes when a
// generated code collides with an existing record.
const maxGenerateAttempts = 5

// Allocator hands out short codes that are unique against the store.
type Allocator struct {
	repo     Repository
	generate CodeGenerator
}

// NewAllocator creates an allocator backed by the given repository and
// code generator.
func NewAllocator(repo Repository, generate CodeGenerator) *Allocator {
	return &Allocator{
		repo:     repo,
		generate: generate,
	}
}

// Allocate returns a code for a new record. A custom alias is used verbatim
// and fails with ErrAliasTaken when a record already exists under it. With no
// alias, a generated code is drawn, redrawing up to maxGenerateAttempts times
// on collision.
//
// The existence check here is advisory: two requests can both see a code as
// free. Record creation must go through Repository.Create, whose
// set-if-not-exists semantics pick a single winner.
func (a *Allocator) Allocate(ctx context.Context, customAlias string) (Code, error) {
	if customAlias != "" {
		taken, err := a.repo.Exists(ctx, Code(customAlias))
		if err != nil {
			return "", err
		}

		if taken {
			return "", ErrAliasTaken
		}

		return Code(customAlias), nil
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code := Code(a.generate())

		taken, err := a.repo.Exists(ctx, code)
		if err != nil {
			return "", err
		}

		if !taken {
			return code, nil
		}
	}

	return "", ErrCodeExhausted
}
