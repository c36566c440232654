package codec

import (
	"io"
	"os"

	"github.com/nabbar/arkive/arkerr"
	"github.com/nabbar/arkive/formatfilter"
)

// OpenWriter creates destPath (failing if it already exists — the
// compressor engine owns collision-avoidance naming, spec.md §4.5) and
// returns a Writer that applies filter then format on top of it.
func OpenWriter(ad *Adapter, destPath string, format formatfilter.Format, filter formatfilter.Filter) (Writer, error) {
	f, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return nil, arkerr.New(arkerr.KindIO, destPath, err)
	}

	fw, err := wrapCompressor(filter, f)
	if err != nil {
		_ = f.Close()
		return nil, arkerr.New(arkerr.KindCodec, destPath, err)
	}

	var formatW Writer
	switch format {
	case formatfilter.Tar, formatfilter.GnuTar, formatfilter.Pax, formatfilter.Ustar:
		formatW = newTarWriter(ad, fw)
	case formatfilter.Zip:
		formatW = newZipWriter(ad, fw)
	case formatfilter.CpioNewc, formatfilter.Cpio:
		formatW = newCpioWriter(ad, fw)
	case formatfilter.ArSvr4, formatfilter.ArBsd:
		formatW = newArWriter(ad, fw)
	default:
		_ = fw.Close()
		_ = f.Close()
		return nil, arkerr.New(arkerr.KindCodec, destPath, errUnsupportedFormat(format))
	}

	return &compositeWriter{Writer: formatW, filterW: fw, file: f}, nil
}

// compositeWriter chains the format writer's Close into the filter
// writer's Close into the destination file's Close, stopping at and
// reporting the first failure (spec.md §4.5's body-streaming close order).
// WriteHeader/Write are promoted straight from the embedded format Writer.
type compositeWriter struct {
	Writer
	filterW io.WriteCloser
	file    *os.File
}

func (c *compositeWriter) Close() error {
	if err := c.Writer.Close(); err != nil {
		_ = c.filterW.Close()
		_ = c.file.Close()
		return arkerr.New(arkerr.KindCodec, c.file.Name(), err)
	}
	if err := c.filterW.Close(); err != nil {
		_ = c.file.Close()
		return arkerr.New(arkerr.KindCodec, c.file.Name(), err)
	}
	if err := c.file.Close(); err != nil {
		return arkerr.New(arkerr.KindIO, c.file.Name(), err)
	}
	return nil
}
