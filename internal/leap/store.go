package leap

import (
	"errors"
	"sync/atomic"
)

// Store publishes a table to concurrent readers. Swapping in a new table
// never affects conversions already holding the previous one.
type Store struct {
	table atomic.Pointer[Table]
}

func NewStore(t *Table) *Store {
	s := &Store{}
	s.table.Store(t)

	return s
}

// Load returns the current table.
func (s *Store) Load() *Table {
	return s.table.Load()
}

// Swap publishes t and returns the table it replaced.
func (s *Store) Swap(t *Table) (*Table, error) {
	if t == nil {
		return nil, errors.New("nil leap second table")
	}

	return s.table.Swap(t), nil
}
