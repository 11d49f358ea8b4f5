package store

import "time"

// File is one indexed source file. Hash is the content hash at index
// time; callers use it to skip re-indexing unchanged files.
type File struct {
	ID          int64
	Path        string
	Language    string
	Hash        string
	LastIndexed time.Time
}
