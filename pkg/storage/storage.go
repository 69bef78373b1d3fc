// Package storage defines the opaque key-value blob abstraction the
// filter-state and history stores persist through, plus memory, file
// and sqlite backends. Blob values are JSON documents; backends never
// interpret them.
package storage

// Backend is the persistence boundary for the stores. Implementations
// must be safe for concurrent use.
type Backend interface {
	// Get returns the blob stored under key. The second result is
	// false when the key has never been written.
	Get(key string) (string, bool, error)

	// Set stores the blob under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
}
