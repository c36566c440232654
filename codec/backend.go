package codec

import (
	"io"

	"github.com/nabbar/arkive/internal/entry"
)

// Reader is the streaming read side of the codec contract (spec.md §6.2):
// next_header/read_data_block/read_data_skip, plus the filter_count and
// format accessors the scan pass needs for the raw-format guard (spec.md
// §4.6.1, §9).
type Reader interface {
	io.Closer

	// Next advances to the next entry, returning io.EOF when exhausted.
	Next() (*entry.Entry, error)

	// Read reads from the current entry's body.
	Read(p []byte) (int, error)

	// Skip discards the remainder of the current entry's body
	// (read_data_skip in spec.md §6.2).
	Skip() error

	// FilterCount is the number of filter layers the codec applied before
	// reaching archive content (spec.md §9's raw-format guard: an identity
	// layer always counts as 1, so a real compression filter on top makes
	// 2; zero additional filters in raw mode yields 1, which is rejected).
	FilterCount() int

	// IsRaw reports whether this session is running in raw (single
	// concatenated stream) mode rather than full archive mode.
	IsRaw() bool
}

// Writer is the streaming write side of the codec contract (spec.md §6.2).
type Writer interface {
	io.Closer

	// WriteHeader starts a new entry.
	WriteHeader(e *entry.Entry) error

	// Write streams the current entry's body.
	Write(p []byte) (int, error)
}

// LinkResolver mirrors the codec library's link resolver (spec.md §4.5,
// §6.2, §9): primed with a format, it defers hardlink bodies until their
// primary instance is known, returning up to two entries actually due to be
// written for a given nominal entry.
type LinkResolver interface {
	// Linkify returns the entries that should actually be written for src
	// (the filesystem source path the logical entry came from): primary is
	// non-nil when something should be written now, sparse is non-nil for a
	// deferred/placeholder companion entry some formats need.
	Linkify(src string, e *entry.Entry) (primary *entry.Entry, sparse *entry.Entry)

	// Flush drains any entries still deferred at the end of the walk
	// (mirrors the codec library's closing linkify call, spec.md §4.5).
	Flush() []*entry.Entry
}
