package codec

import (
	"bytes"

	"github.com/nabbar/arkive/formatfilter"
)

// detectFilter sniffs a compression filter from the first bytes of a
// stream, mirroring the teacher's Algorithm.DetectHeader convention
// (nabbar-golib archive/compress/types.go) generalized to the filters this
// backend concretely implements (gzip, bzip2, xz, lzma-alone-stream).
func detectFilter(h []byte) formatfilter.Filter {
	switch {
	case len(h) >= 2 && bytes.Equal(h[0:2], []byte{0x1f, 0x8b}):
		return formatfilter.Gzip
	case len(h) >= 4 && bytes.Equal(h[0:3], []byte{'B', 'Z', 'h'}) && h[3] >= '0' && h[3] <= '9':
		return formatfilter.Bzip2
	case len(h) >= 6 && bytes.Equal(h[0:6], []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}):
		return formatfilter.Xz
	case len(h) >= 13 && h[0] == 0x5D && h[1] == 0x00 && h[2] == 0x00:
		// classic .lzma alone-stream header: 1 byte properties + 4 byte
		// dictionary size + 8 byte (possibly undefined) uncompressed size.
		return formatfilter.Lzma
	default:
		return formatfilter.FilterNone
	}
}

// detectFormat sniffs a container format from the first bytes of a
// (decompressed) stream, mirroring teacher archive/archive/types.go's
// Algorithm.DetectHeader, generalized to the formats this backend
// concretely implements.
func detectFormat(h []byte) formatfilter.Format {
	switch {
	case len(h) >= 263 && bytes.Equal(h[257:262], []byte("ustar")):
		return formatfilter.Tar
	case len(h) >= 4 && bytes.Equal(h[0:4], []byte{0x50, 0x4B, 0x03, 0x04}):
		return formatfilter.Zip
	case len(h) >= 4 && bytes.Equal(h[0:4], []byte{0x50, 0x4B, 0x05, 0x06}):
		// empty zip archive (end-of-central-directory only)
		return formatfilter.Zip
	case len(h) >= 6 && (bytes.Equal(h[0:6], []byte("070701")) || bytes.Equal(h[0:6], []byte("070707"))):
		return formatfilter.CpioNewc
	case len(h) >= 8 && bytes.Equal(h[0:8], []byte("!<arch>\n")):
		return formatfilter.ArSvr4
	default:
		return formatfilter.FormatNone
	}
}
