package repository

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/okian/archery-handicaps/internal/domain/round"
)

//go:embed data/*.yaml
var defaultData embed.FS

// DefaultRounds loads every round in the bundled catalogue.
func (ld *Loader) DefaultRounds(ctx context.Context) ([]round.Round, error) {
	files, err := fs.Glob(defaultData, "data/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var out []round.Round
	for _, name := range files {
		data, err := defaultData.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		rounds, err := ld.load(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, rounds...)
	}
	return out, nil
}

// NewCatalogue builds a store holding the bundled rounds followed by those in
// extraFiles. Later definitions replace earlier ones with the same codename.
func NewCatalogue(ctx context.Context, ld *Loader, extraFiles []string, opts ...Option) (*MemoryStore, error) {
	if ld == nil {
		ld = NewLoader()
	}
	rounds, err := ld.DefaultRounds(ctx)
	if err != nil {
		return nil, err
	}
	for _, path := range extraFiles {
		if path == "" {
			continue
		}
		extra, err := ld.LoadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rounds = append(rounds, extra...)
	}

	store := NewMemoryStore(opts...)
	if err := store.PutAll(ctx, rounds); err != nil {
		return nil, err
	}
	return store, nil
}
