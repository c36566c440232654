package codec

import (
	"bufio"
	"errors"
	"io"
	"strconv"

	"github.com/nabbar/arkive/arkerr"
	"github.com/nabbar/arkive/internal/entry"
)

// cpioReader implements the "newc" (SVR4 portable ASCII, no CRC) cpio
// variant. No pack example library covers cpio, so this is hand-rolled
// directly from the well-known on-disk layout (justified in DESIGN.md):
// a fixed 110-byte ASCII-hex header, a NUL-terminated name, and entry
// bodies, each individually padded to a 4-byte boundary, terminated by a
// "TRAILER!!!" entry.
type cpioReader struct {
	ad          *Adapter
	r           *bufio.Reader
	remaining   int64
	bodyPad     int
	filterCount int
	done        bool
}

const cpioMagic = "070701"
const cpioTrailer = "TRAILER!!!"
const cpioHeaderLen = 110

func newCpioReader(ad *Adapter, r io.Reader, filterCount int) *cpioReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &cpioReader{ad: ad, r: br, filterCount: filterCount}
}

func (c *cpioReader) Next() (*entry.Entry, error) {
	if c.done {
		return nil, io.EOF
	}
	if err := c.Skip(); err != nil {
		return nil, err
	}

	hdr := make([]byte, cpioHeaderLen)
	if _, err := io.ReadFull(c.r, hdr); err != nil {
		return nil, err
	}
	if string(hdr[0:6]) != cpioMagic {
		return nil, arkerr.New(arkerr.KindInvalidFormat, "", errors.New("cpio: bad magic"))
	}

	field := func(i int) (int64, error) {
		start := 6 + i*8
		v, err := strconv.ParseInt(string(hdr[start:start+8]), 16, 64)
		return v, err
	}

	ino, _ := field(0)
	mode, _ := field(1)
	uid, _ := field(2)
	gid, _ := field(3)
	nlink, _ := field(4)
	mtime, _ := field(5)
	filesize, err := field(6)
	if err != nil {
		return nil, arkerr.New(arkerr.KindInvalidFormat, "", err)
	}
	devmajor, _ := field(7)
	devminor, _ := field(8)
	rdevmajor, _ := field(9)
	rdevminor, _ := field(10)
	namesize, err := field(11)
	if err != nil {
		return nil, arkerr.New(arkerr.KindInvalidFormat, "", err)
	}
	_ = ino

	nameBuf := make([]byte, namesize)
	if _, err := io.ReadFull(c.r, nameBuf); err != nil {
		return nil, err
	}
	name := string(nameBuf[:len(nameBuf)-1]) // drop trailing NUL

	headerAndName := int64(cpioHeaderLen) + namesize
	if pad := int(headerAndName % 4); pad != 0 {
		if _, err := io.CopyN(io.Discard, c.r, int64(4-pad)); err != nil {
			return nil, err
		}
	}

	if name == cpioTrailer {
		c.done = true
		return nil, io.EOF
	}

	c.remaining = filesize
	if pad := int(filesize % 4); pad != 0 {
		c.bodyPad = 4 - pad
	} else {
		c.bodyPad = 0
	}

	e := &entry.Entry{
		RawPath:  []byte(name),
		Size:     filesize,
		Mode:     uint32(mode),
		UID:      int(uid),
		GID:      int(gid),
		Nlink:    int(nlink),
		DevMajor: int(devmajor),
		DevMinor: int(devminor),
		Rdev:     uint64(rdevmajor)<<32 | uint64(rdevminor),
	}
	_ = mtime
	typeBits := mode & 0o170000
	switch typeBits {
	case 0o040000:
		e.Type = entry.Directory
	case 0o120000:
		e.Type = entry.Symlink
	case 0o010000:
		e.Type = entry.Fifo
	case 0o060000:
		e.Type = entry.BlockDevice
	case 0o020000:
		e.Type = entry.CharDevice
	case 0o140000:
		e.Type = entry.Socket
	default:
		e.Type = entry.Regular
	}

	if e.Type == entry.Symlink && filesize > 0 {
		target := make([]byte, filesize)
		if _, err := io.ReadFull(c.r, target); err != nil {
			return nil, err
		}
		e.SymlinkTarget = string(target)
		c.remaining = 0
		if c.bodyPad > 0 {
			if _, err := io.CopyN(io.Discard, c.r, int64(c.bodyPad)); err != nil {
				return nil, err
			}
			c.bodyPad = 0
		}
	}

	return e, nil
}

func (c *cpioReader) Read(p []byte) (int, error) {
	if err := c.ad.CheckCancel(); err != nil {
		return 0, err
	}
	if c.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining == 0 && c.bodyPad > 0 {
		io.CopyN(io.Discard, c.r, int64(c.bodyPad)) //nolint:errcheck
		c.bodyPad = 0
	}
	return n, err
}

func (c *cpioReader) Skip() error {
	if c.remaining > 0 {
		if _, err := io.CopyN(io.Discard, c.r, c.remaining); err != nil {
			return err
		}
		c.remaining = 0
	}
	if c.bodyPad > 0 {
		if _, err := io.CopyN(io.Discard, c.r, int64(c.bodyPad)); err != nil {
			return err
		}
		c.bodyPad = 0
	}
	return nil
}

func (c *cpioReader) FilterCount() int { return c.filterCount }
func (c *cpioReader) IsRaw() bool      { return false }
func (c *cpioReader) Close() error     { return nil }
