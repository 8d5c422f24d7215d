package store

import "time"

// NopStore is used by one-shot runs. It never records anything, so every
// vacancy appears new and the store never reports itself empty.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasSeen(key string) (bool, error)      { return false, nil }
func (s *NopStore) MarkSeen(key string) error             { return nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error { return nil }
func (s *NopStore) IsEmpty() (bool, error)                { return false, nil }
