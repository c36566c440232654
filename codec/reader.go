package codec

import (
	"bufio"
	"io"
	"os"

	"github.com/nabbar/arkive/arkerr"
	"github.com/nabbar/arkive/formatfilter"
)

const peekSize = 265

// OpenReader opens f for reading, auto-detecting the compression filter and,
// unless raw is true, the container format (spec.md §4.6.1's "try to open
// in full mode first" flow; the retry-as-raw branch lives in the extractor,
// which calls back in with raw=true on failure).
//
// archiveBaseName names the synthetic single entry used in raw mode
// (spec.md §4.6.1's raw-format handling).
func OpenReader(ad *Adapter, f *os.File, archiveBaseName string, passphrase string, raw bool) (Reader, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, arkerr.New(arkerr.KindIO, f.Name(), err)
	}

	br := bufio.NewReaderSize(f, peekSize)
	head, _ := br.Peek(peekSize)
	filt := detectFilter(head)

	filterCount := 1
	var body io.Reader = br
	var raSource *os.File
	if filt == formatfilter.FilterNone {
		raSource = f
	} else {
		filterCount++
		dec, err := wrapDecompressor(filt, br)
		if err != nil {
			return nil, arkerr.New(arkerr.KindCodec, f.Name(), err)
		}
		body = dec
	}

	if raw {
		return newRawReader(ad, body, archiveBaseName, filterCount), nil
	}

	seq, ok := body.(*bufio.Reader)
	if !ok {
		seq = bufio.NewReaderSize(body, peekSize)
	}
	formatHead, _ := seq.Peek(peekSize)
	format := detectFormat(formatHead)

	switch format {
	case formatfilter.Tar:
		return newTarReader(ad, seq, filterCount), nil
	case formatfilter.Zip:
		if raSource == nil {
			return nil, arkerr.New(arkerr.KindNotAnArchive, f.Name(), errUnsupportedFormat(format))
		}
		fi, err := raSource.Stat()
		if err != nil {
			return nil, arkerr.New(arkerr.KindIO, f.Name(), err)
		}
		return newZipReader(ad, raSource, fi.Size(), passphrase, filterCount)
	case formatfilter.CpioNewc:
		return newCpioReader(ad, seq, filterCount), nil
	case formatfilter.ArSvr4:
		return newArReader(ad, seq, filterCount), nil
	default:
		return nil, arkerr.New(arkerr.KindNotAnArchive, f.Name(), nil)
	}
}
