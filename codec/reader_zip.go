package codec

import (
	"archive/zip"
	"io"
	"io/fs"

	"github.com/nabbar/arkive/arkerr"
	"github.com/nabbar/arkive/internal/entry"
)

// zipReader adapts stdlib archive/zip (needs io.ReaderAt, hence the codec
// dispatch keeps the original *os.File around whenever no outer compression
// filter was detected) to the codec Reader contract. Grounded on the
// teacher's archive/zip/reader.go GetAll walk.
type zipReader struct {
	ad          *Adapter
	zr          *zip.Reader
	files       []*zip.File
	idx         int
	cur         io.ReadCloser
	passphrase  string
	filterCount int
}

func newZipReader(ad *Adapter, ra io.ReaderAt, size int64, passphrase string, filterCount int) (*zipReader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, arkerr.New(arkerr.KindInvalidFormat, "", err)
	}
	return &zipReader{ad: ad, zr: zr, files: zr.File, passphrase: passphrase, filterCount: filterCount}, nil
}

func (z *zipReader) Next() (*entry.Entry, error) {
	if z.cur != nil {
		_ = z.cur.Close()
		z.cur = nil
	}
	if z.idx >= len(z.files) {
		return nil, io.EOF
	}
	f := z.files[z.idx]
	z.idx++

	e := zipFileToEntry(f)

	if e.Encrypted {
		// WinZip AES (method 99) uses a completely different key-derivation
		// and MAC scheme than classic ZipCrypto; openZipCryptoEntry only
		// implements the latter, so report it rather than misreading the
		// stream as an incorrect passphrase.
		if isAESEncryptedZipMethod(f.Method) {
			return nil, arkerr.New(arkerr.KindEncryptedUnsupported, e.Path(), nil)
		}
		if z.passphrase == "" {
			return nil, arkerr.New(arkerr.KindPassphraseRequired, e.Path(), nil)
		}
		rc, err := openZipCryptoEntry(f, z.passphrase)
		if err != nil {
			return nil, arkerr.New(arkerr.KindIncorrectPassphrase, e.Path(), err)
		}
		z.cur = rc
		return e, nil
	}

	if e.Type != entry.Directory {
		rc, err := f.Open()
		if err != nil {
			return nil, arkerr.New(arkerr.KindIO, e.Path(), err)
		}
		z.cur = rc
	}

	return e, nil
}

func (z *zipReader) Read(p []byte) (int, error) {
	if err := z.ad.CheckCancel(); err != nil {
		return 0, err
	}
	if z.cur == nil {
		return 0, io.EOF
	}
	return z.cur.Read(p)
}

func (z *zipReader) Skip() error {
	if z.cur == nil {
		return nil
	}
	_, err := io.Copy(io.Discard, z.cur)
	return err
}

func (z *zipReader) FilterCount() int { return z.filterCount }
func (z *zipReader) IsRaw() bool      { return false }

func (z *zipReader) Close() error {
	if z.cur != nil {
		return z.cur.Close()
	}
	return nil
}

// winzipAESMethod is APPNOTE.TXT's compression-method value reserved for
// WinZip AES-encrypted entries; archive/zip doesn't export a constant for
// it since it never implements the extraction itself.
const winzipAESMethod = 99

func isAESEncryptedZipMethod(method uint16) bool {
	return method == winzipAESMethod
}

func zipFileToEntry(f *zip.File) *entry.Entry {
	e := &entry.Entry{
		RawPath:   []byte(f.Name),
		Size:      int64(f.UncompressedSize64),
		Mode:      uint32(f.Mode()),
		Encrypted: f.Flags&0x1 != 0,
	}

	switch {
	case f.Mode()&fs.ModeDir != 0:
		e.Type = entry.Directory
	case f.Mode()&fs.ModeSymlink != 0:
		e.Type = entry.Symlink
	default:
		e.Type = entry.Regular
	}

	mt := f.Modified
	if !mt.IsZero() {
		e.ModifyTime = &mt
	}

	return e
}
