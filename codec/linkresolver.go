package codec

import (
	"os"
	"syscall"

	"github.com/nabbar/arkive/formatfilter"
	"github.com/nabbar/arkive/internal/entry"
)

// linkResolver coalesces multiple source paths that are the same inode into
// one primary entry (the first one seen, carrying the full body) and
// subsequent hardlink entries (carrying no body, referencing the primary's
// archive path), per spec.md §4.5/§9. Identification uses
// syscall.Stat_t.{Dev,Ino}; on platforms where that type assertion fails,
// every source degrades to a unique entry (no coalescing, still correct,
// just less space-efficient) — the same fallback archive/tar's own
// FileInfoHeader uses internally.
type linkResolver struct {
	format formatfilter.Format
	seen   map[linkKey]string
}

type linkKey struct {
	dev, ino uint64
}

func newLinkResolver(format formatfilter.Format) *linkResolver {
	return &linkResolver{format: format, seen: make(map[linkKey]string)}
}

// NewLinkResolver returns the LinkResolver backend for format, for use by
// the compressor engine's write-side walk.
func NewLinkResolver(format formatfilter.Format) LinkResolver {
	return newLinkResolver(format)
}

func (l *linkResolver) Linkify(src string, e *entry.Entry) (*entry.Entry, *entry.Entry) {
	if e.Type != entry.Regular {
		return e, nil
	}

	fi, err := os.Lstat(src)
	if err != nil {
		return e, nil
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok || st.Nlink < 2 {
		return e, nil
	}

	key := linkKey{dev: uint64(st.Dev), ino: st.Ino}
	primaryPath, known := l.seen[key]
	if !known {
		l.seen[key] = e.Path()
		return e, nil
	}

	link := *e
	link.Type = entry.Hardlink
	link.HardlinkTarget = primaryPath
	link.Size = 0
	return &link, nil
}

func (l *linkResolver) Flush() []*entry.Entry {
	return nil
}
