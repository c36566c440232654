package codec

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/nabbar/arkive/arkerr"
	"github.com/nabbar/arkive/internal/entry"
)

// arReader implements the SVR4/GNU common ar variant: an 8-byte global
// magic, 60-byte fixed ASCII headers, entries padded to an even byte
// boundary, with the conventional "//" long-filename table and "/"
// symbol-table members. No pack example library covers ar either, hence
// hand-rolled from the well-known on-disk layout (justified in DESIGN.md).
type arReader struct {
	ad          *Adapter
	r           *bufio.Reader
	remaining   int64
	pad         int
	filterCount int
	longNames   string
	started     bool
}

const arGlobalMagic = "!<arch>\n"
const arHeaderLen = 60

func newArReader(ad *Adapter, r io.Reader, filterCount int) *arReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &arReader{ad: ad, r: br, filterCount: filterCount}
}

func (a *arReader) Next() (*entry.Entry, error) {
	if err := a.Skip(); err != nil {
		return nil, err
	}

	if !a.started {
		magic := make([]byte, len(arGlobalMagic))
		if _, err := io.ReadFull(a.r, magic); err != nil {
			return nil, err
		}
		if string(magic) != arGlobalMagic {
			return nil, arkerr.New(arkerr.KindInvalidFormat, "", errors.New("ar: bad magic"))
		}
		a.started = true
	}

	for {
		hdr := make([]byte, arHeaderLen)
		if _, err := io.ReadFull(a.r, hdr); err != nil {
			return nil, err
		}
		if hdr[58] != 0x60 {
			return nil, arkerr.New(arkerr.KindInvalidFormat, "", errors.New("ar: bad header terminator"))
		}

		rawName := strings.TrimRight(string(hdr[0:16]), " ")
		size, err := strconv.ParseInt(strings.TrimSpace(string(hdr[48:58])), 10, 64)
		if err != nil {
			return nil, arkerr.New(arkerr.KindInvalidFormat, "", err)
		}
		pad := 0
		if size%2 != 0 {
			pad = 1
		}

		switch {
		case rawName == "//":
			table := make([]byte, size)
			if _, err := io.ReadFull(a.r, table); err != nil {
				return nil, err
			}
			a.longNames = string(table)
			if pad != 0 {
				io.CopyN(io.Discard, a.r, 1) //nolint:errcheck
			}
			continue
		case rawName == "/":
			if _, err := io.CopyN(io.Discard, a.r, size+int64(pad)); err != nil {
				return nil, err
			}
			continue
		}

		name := strings.TrimSuffix(rawName, "/")
		if strings.HasPrefix(rawName, "/") {
			if off, err := strconv.Atoi(strings.TrimPrefix(rawName, "/")); err == nil && off >= 0 && off < len(a.longNames) {
				name = strings.TrimSuffix(strings.SplitN(a.longNames[off:], "\n", 2)[0], "/")
			}
		}

		// hdr[16:28] is the 12-byte decimal mtime field, currently unused.
		uid, _ := strconv.Atoi(strings.TrimSpace(string(hdr[28:34])))
		gid, _ := strconv.Atoi(strings.TrimSpace(string(hdr[34:40])))
		mode, _ := strconv.ParseInt(strings.TrimSpace(string(hdr[40:48])), 8, 32)

		a.remaining = size
		a.pad = pad

		return &entry.Entry{
			RawPath: []byte(name),
			Size:    size,
			Mode:    uint32(mode),
			UID:     uid,
			GID:     gid,
			Type:    entry.Regular,
		}, nil
	}
}

func (a *arReader) Read(p []byte) (int, error) {
	if err := a.ad.CheckCancel(); err != nil {
		return 0, err
	}
	if a.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > a.remaining {
		p = p[:a.remaining]
	}
	n, err := a.r.Read(p)
	a.remaining -= int64(n)
	return n, err
}

func (a *arReader) Skip() error {
	if a.remaining > 0 {
		if _, err := io.CopyN(io.Discard, a.r, a.remaining); err != nil {
			return err
		}
		a.remaining = 0
	}
	if a.pad > 0 {
		if _, err := io.CopyN(io.Discard, a.r, int64(a.pad)); err != nil {
			return err
		}
		a.pad = 0
	}
	return nil
}

func (a *arReader) FilterCount() int { return a.filterCount }
func (a *arReader) IsRaw() bool      { return false }
func (a *arReader) Close() error     { return nil }
