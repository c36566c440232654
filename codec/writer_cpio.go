package codec

import (
	"fmt"
	"io"

	"github.com/nabbar/arkive/internal/entry"
)

// cpioWriter emits the "newc" cpio variant, the write-side counterpart of
// cpioReader (see reader_cpio.go for the format layout and grounding note).
type cpioWriter struct {
	ad        *Adapter
	w         io.Writer
	written   int64
	pending   int64
	bodyPad   int
	headerLen int64
}

func newCpioWriter(ad *Adapter, w io.Writer) *cpioWriter {
	return &cpioWriter{ad: ad, w: w}
}

func (c *cpioWriter) WriteHeader(e *entry.Entry) error {
	if c.pending > 0 || c.bodyPad > 0 {
		if err := c.padBody(); err != nil {
			return err
		}
	}

	name := e.Path()
	mode := e.Mode & 0o7777
	switch e.Type {
	case entry.Directory:
		mode |= 0o040000
	case entry.Symlink:
		mode |= 0o120000
	case entry.Fifo:
		mode |= 0o010000
	case entry.BlockDevice:
		mode |= 0o060000
	case entry.CharDevice:
		mode |= 0o020000
	case entry.Socket:
		mode |= 0o140000
	default:
		mode |= 0o100000
	}

	size := e.Size
	if e.Type != entry.Regular {
		size = 0
	}
	body := []byte(nil)
	if e.Type == entry.Symlink {
		body = []byte(e.SymlinkTarget)
		size = int64(len(body))
	}

	nameBytes := append([]byte(name), 0)
	header := fmt.Sprintf("%s%08X%08X%08X%08X%08X%08X%08X%08X%08X%08X%08X%08X%08X",
		cpioMagic, 0, mode, e.UID, e.GID, e.Nlink, 0, size,
		e.DevMajor, e.DevMinor, 0, 0, len(nameBytes), 0)

	if _, err := io.WriteString(c.w, header); err != nil {
		return err
	}
	if _, err := c.w.Write(nameBytes); err != nil {
		return err
	}

	total := int64(len(header)) + int64(len(nameBytes))
	if pad := total % 4; pad != 0 {
		if _, err := c.w.Write(make([]byte, 4-pad)); err != nil {
			return err
		}
	}

	if e.Type == entry.Symlink {
		if _, err := c.w.Write(body); err != nil {
			return err
		}
		if pad := size % 4; pad != 0 {
			if _, err := c.w.Write(make([]byte, 4-pad)); err != nil {
				return err
			}
		}
		c.pending = 0
		c.bodyPad = 0
		return nil
	}

	c.pending = size
	if pad := size % 4; pad != 0 {
		c.bodyPad = int(4 - pad)
	} else {
		c.bodyPad = 0
	}
	return nil
}

func (c *cpioWriter) Write(p []byte) (int, error) {
	if err := c.ad.CheckCancel(); err != nil {
		return 0, err
	}
	n, err := c.w.Write(p)
	c.pending -= int64(n)
	if c.pending <= 0 {
		if err := c.padBody(); err != nil {
			return n, err
		}
	}
	return n, err
}

func (c *cpioWriter) padBody() error {
	if c.bodyPad > 0 {
		if _, err := c.w.Write(make([]byte, c.bodyPad)); err != nil {
			return err
		}
		c.bodyPad = 0
	}
	c.pending = 0
	return nil
}

func (c *cpioWriter) Close() error {
	if err := c.padBody(); err != nil {
		return err
	}
	trailer := &entry.Entry{RawPath: []byte(cpioTrailer), Type: entry.Regular}
	if err := c.WriteHeader(trailer); err != nil {
		return err
	}
	return c.padBody()
}
