package database

import (
	"errors"
	"fmt"
	"sync"
)

// Handles tracks the backend handles a Manager has open, by database name.
// The zero value is ready to use.
type Handles[H interface{ Close() error }] struct {
	mu   sync.Mutex
	open map[string]H
}

// Get returns the open handle for name, calling open on first use.
func (h *Handles[H]) Get(name string, open func() (H, error)) (H, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if db, ok := h.open[name]; ok {
		return db, nil
	}
	db, err := open()
	if err != nil {
		var zero H
		return zero, fmt.Errorf("open database %s: %w", name, err)
	}
	if h.open == nil {
		h.open = make(map[string]H)
	}
	h.open[name] = db
	return db, nil
}

// Release closes the handle for name.
func (h *Handles[H]) Release(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	db, ok := h.open[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDBNotOpen, name)
	}
	delete(h.open, name)
	if err := db.Close(); err != nil {
		return fmt.Errorf("close database %s: %w", name, err)
	}
	return nil
}

// ReleaseAll closes every open handle and joins their errors.
func (h *Handles[H]) ReleaseAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for name, db := range h.open {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database %s: %w", name, err))
		}
	}
	h.open = nil
	return errors.Join(errs...)
}
