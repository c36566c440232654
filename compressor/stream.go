package compressor

import (
	"errors"
	"io"

	"github.com/nabbar/arkive/codec"
)

// maxZeroReads bounds the number of consecutive zero-byte, no-error reads
// tolerated from a source file before giving up (spec.md §4.5's body-
// streaming rule): some filesystems/devices can transiently return (0, nil)
// without being at EOF, and a tight retry loop on that case must not spin
// forever.
const maxZeroReads = 5

var errStalledRead = errors.New("compressor: source stopped producing data")

// copyBody streams src into dst in codec.ChunkSize blocks, surfacing
// cancellation at every block boundary.
func copyBody(ad *codec.Adapter, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, codec.ChunkSize)
	var total int64
	var zeroReads int

	for {
		if err := ad.CheckCancel(); err != nil {
			return total, err
		}

		n, rerr := src.Read(buf)
		if n == 0 && rerr == nil {
			zeroReads++
			if zeroReads >= maxZeroReads {
				return total, errStalledRead
			}
			continue
		}
		zeroReads = 0

		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}

		if rerr != nil {
			if rerr == io.EOF {
				return total, nil
			}
			return total, rerr
		}
	}
}
