package index

// StashIndex defines the interface for stash indexing operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type StashIndex interface {
	UpsertStash(row StashRow) error
	ReplaceSource(path, kind, cs string, rows []StashRow) error
	DeleteSource(path string) error
	GetStash(key string) (*StashRow, error)
	ListStashes(kind, owner, item string, limit, offset int) ([]StashRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	SourceChecksum(path string) (string, error)
	AllSourceChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies StashIndex at compile time.
var _ StashIndex = (*DB)(nil)
