package codec

import (
	"compress/bzip2"
	"io"

	dsnetbzip2 "github.com/dsnet/compress/bzip2"
	klauspostgzip "github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	"github.com/nabbar/arkive/arkerr"
	"github.com/nabbar/arkive/formatfilter"
)

// wrapDecompressor returns a reader that decompresses r according to filt.
// Grounded on the teacher's archive/compress/io.go dispatch table, widened
// to the filters this backend concretely implements.
func wrapDecompressor(filt formatfilter.Filter, r io.Reader) (io.Reader, error) {
	switch filt {
	case formatfilter.FilterNone:
		return r, nil
	case formatfilter.Gzip:
		return klauspostgzip.NewReader(r)
	case formatfilter.Bzip2:
		return bzip2.NewReader(r), nil
	case formatfilter.Xz:
		return xz.NewReader(r)
	case formatfilter.Lzma:
		return lzma.NewReader(r)
	default:
		return nil, arkerr.New(arkerr.KindCodec, "", errUnsupportedFilter(filt))
	}
}

// wrapCompressor returns a WriteCloser that compresses into w according to
// filt. bzip2 has no stdlib writer, hence dsnet/compress/bzip2 (identical
// pairing to the teacher's archive/compress/io.go).
func wrapCompressor(filt formatfilter.Filter, w io.Writer) (io.WriteCloser, error) {
	switch filt {
	case formatfilter.FilterNone:
		return nopWriteCloser{w}, nil
	case formatfilter.Gzip:
		return klauspostgzip.NewWriter(w), nil
	case formatfilter.Bzip2:
		return dsnetbzip2.NewWriter(w, nil)
	case formatfilter.Xz:
		return xz.NewWriter(w)
	case formatfilter.Lzma:
		return lzma.NewWriter(w)
	default:
		return nil, arkerr.New(arkerr.KindCodec, "", errUnsupportedFilter(filt))
	}
}

type unsupportedFilterError struct {
	filter formatfilter.Filter
}

func (e unsupportedFilterError) Error() string {
	return "filter not supported by this codec backend: " + e.filter.String()
}

func errUnsupportedFilter(f formatfilter.Filter) error {
	return unsupportedFilterError{filter: f}
}

type unsupportedFormatError struct {
	format formatfilter.Format
}

func (e unsupportedFormatError) Error() string {
	return "format not supported by this codec backend: " + e.format.String()
}

func errUnsupportedFormat(f formatfilter.Format) error {
	return unsupportedFormatError{format: f}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
