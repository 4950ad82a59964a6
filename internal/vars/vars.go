// Package vars implements the build variable store. Every write is mirrored
// to a publication sink so downstream consumers (process environment,
// templating) observe values as soon as they are derived.
package vars

import (
	"log/slog"
	"sort"

	"git.home.luguber.info/inful/envbuilder/internal/logfields"
)

// Publisher receives every variable written to a Store.
type Publisher interface {
	Publish(key, value string) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(key, value string) error

func (f PublisherFunc) Publish(key, value string) error { return f(key, value) }

// NopPublisher discards published variables.
var NopPublisher = PublisherFunc(func(string, string) error { return nil })

// Store is a key/value store whose writes are mirrored to a Publisher.
// Keys are unique; a second Set for the same key overwrites and republishes.
type Store struct {
	values    map[string]string
	publisher Publisher
}

// NewStore creates a Store publishing to p. A nil p means no publication.
func NewStore(p Publisher) *Store {
	if p == nil {
		p = NopPublisher
	}
	return &Store{values: make(map[string]string), publisher: p}
}

// Set stores the pair and publishes it. Publication failures propagate and
// leave the local value in place.
func (s *Store) Set(key, value string) error {
	s.values[key] = value
	slog.Debug("Variable set", logfields.Variable(key), logfields.Value(value))
	return s.publisher.Publish(key, value)
}

// Get returns the value for key and whether it is present.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored variables.
func (s *Store) Len() int { return len(s.values) }
