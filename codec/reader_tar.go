package codec

import (
	"archive/tar"
	"io"

	"github.com/nabbar/arkive/internal/entry"
)

// tarReader adapts stdlib archive/tar to the codec Reader contract,
// grounded on the teacher's archive/tar/reader.go GetAll walk.
type tarReader struct {
	ad          *Adapter
	tr          *tar.Reader
	filterCount int
}

func newTarReader(ad *Adapter, r io.Reader, filterCount int) *tarReader {
	return &tarReader{ad: ad, tr: tar.NewReader(r), filterCount: filterCount}
}

func (t *tarReader) Next() (*entry.Entry, error) {
	h, err := t.tr.Next()
	if err != nil {
		return nil, err
	}
	return tarHeaderToEntry(h), nil
}

func (t *tarReader) Read(p []byte) (int, error) {
	if err := t.ad.CheckCancel(); err != nil {
		return 0, err
	}
	return t.tr.Read(p)
}

func (t *tarReader) Skip() error {
	_, err := io.Copy(io.Discard, t.tr)
	return err
}

func (t *tarReader) FilterCount() int { return t.filterCount }
func (t *tarReader) IsRaw() bool      { return false }
func (t *tarReader) Close() error     { return nil }

func tarHeaderToEntry(h *tar.Header) *entry.Entry {
	e := &entry.Entry{
		RawPath:        []byte(h.Name),
		HardlinkTarget: h.Linkname,
		Size:           h.Size,
		Mode:           uint32(h.Mode),
		UID:            h.Uid,
		GID:            h.Gid,
		Owner:          h.Uname,
		Group:          h.Gname,
		DevMajor:       int(h.Devmajor),
		DevMinor:       int(h.Devminor),
	}

	switch h.Typeflag {
	case tar.TypeDir:
		e.Type = entry.Directory
	case tar.TypeSymlink:
		e.Type = entry.Symlink
		e.SymlinkTarget = h.Linkname
	case tar.TypeLink:
		e.Type = entry.Hardlink
	case tar.TypeFifo:
		e.Type = entry.Fifo
	case tar.TypeBlock:
		e.Type = entry.BlockDevice
	case tar.TypeChar:
		e.Type = entry.CharDevice
	default:
		e.Type = entry.Regular
	}

	if !h.ModTime.IsZero() {
		mt := h.ModTime
		e.ModifyTime = &mt
	}
	if !h.AccessTime.IsZero() {
		at := h.AccessTime
		e.AccessTime = &at
	}
	if !h.ChangeTime.IsZero() {
		ct := h.ChangeTime
		e.StatusTime = &ct
	}

	return e
}

func entryToTarHeader(e *entry.Entry) *tar.Header {
	h := &tar.Header{
		Name:     e.Path(),
		Size:     e.Size,
		Mode:     int64(e.Mode),
		Uid:      e.UID,
		Gid:      e.GID,
		Uname:    e.Owner,
		Gname:    e.Group,
		Devmajor: int64(e.DevMajor),
		Devminor: int64(e.DevMinor),
	}

	switch e.Type {
	case entry.Directory:
		h.Typeflag = tar.TypeDir
		h.Size = 0
	case entry.Symlink:
		h.Typeflag = tar.TypeSymlink
		h.Linkname = e.SymlinkTarget
		h.Size = 0
	case entry.Hardlink:
		h.Typeflag = tar.TypeLink
		h.Linkname = e.HardlinkTarget
		h.Size = 0
	case entry.Fifo:
		h.Typeflag = tar.TypeFifo
		h.Size = 0
	case entry.BlockDevice:
		h.Typeflag = tar.TypeBlock
		h.Size = 0
	case entry.CharDevice:
		h.Typeflag = tar.TypeChar
		h.Size = 0
	default:
		h.Typeflag = tar.TypeReg
	}

	if e.ModifyTime != nil {
		h.ModTime = *e.ModifyTime
	}
	if e.AccessTime != nil {
		h.AccessTime = *e.AccessTime
	}
	if e.StatusTime != nil {
		h.ChangeTime = *e.StatusTime
	}

	return h
}
