package codec

import (
	"archive/zip"
	"io"

	"github.com/nabbar/arkive/internal/entry"
)

type zipWriter struct {
	ad  *Adapter
	zw  *zip.Writer
	cur io.Writer
}

func newZipWriter(ad *Adapter, w io.Writer) *zipWriter {
	return &zipWriter{ad: ad, zw: zip.NewWriter(w)}
}

func (z *zipWriter) WriteHeader(e *entry.Entry) error {
	fh := &zip.FileHeader{
		Name:     e.Path(),
		Method:   zip.Deflate,
		Modified: entryModTime(e),
	}
	fh.SetMode(entryFileMode(e))

	if e.Type == entry.Directory {
		fh.Name += "/"
		fh.Method = zip.Store
	}

	w, err := z.zw.CreateHeader(fh)
	if err != nil {
		return err
	}
	z.cur = w
	return nil
}

func (z *zipWriter) Write(p []byte) (int, error) {
	if err := z.ad.CheckCancel(); err != nil {
		return 0, err
	}
	if z.cur == nil {
		return 0, nil
	}
	return z.cur.Write(p)
}

func (z *zipWriter) Close() error {
	return z.zw.Close()
}
