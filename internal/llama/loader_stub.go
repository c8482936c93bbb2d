//go:build !llama

package llama

// No-CGO stub, compiled when the 'llama' build tag is not set. Default
// builds and CI stay CGO-free; Load fails fast instead of mocking
// inference.

import (
	"context"

	"advisord/internal/catalog"
	"advisord/internal/lifecycle"
	"advisord/internal/store"
)

const built = false

type Loader struct {
	store   *store.Store
	ctxSize int
	threads int
}

func NewLoader(st *store.Store, ctxSize, threads int) *Loader {
	return &Loader{store: st, ctxSize: ctxSize, threads: threads}
}

func (l *Loader) Load(ctx context.Context, mdl catalog.Model, progress func(string)) (lifecycle.Handle, error) {
	return nil, lifecycle.ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}
