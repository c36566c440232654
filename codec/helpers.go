package codec

import (
	"io/fs"
	"time"

	"github.com/nabbar/arkive/internal/entry"
)

func entryModTime(e *entry.Entry) time.Time {
	if e.ModifyTime != nil {
		return *e.ModifyTime
	}
	return time.Time{}
}

func entryFileMode(e *entry.Entry) fs.FileMode {
	m := fs.FileMode(e.Mode & 0o7777)
	switch e.Type {
	case entry.Directory:
		m |= fs.ModeDir
	case entry.Symlink:
		m |= fs.ModeSymlink
	}
	return m
}
