package codec

import (
	"archive/tar"

	"github.com/nabbar/arkive/internal/entry"
)

type tarWriter struct {
	ad *Adapter
	tw *tar.Writer
}

func newTarWriter(ad *Adapter, w interface {
	Write([]byte) (int, error)
}) *tarWriter {
	return &tarWriter{ad: ad, tw: tar.NewWriter(w)}
}

func (t *tarWriter) WriteHeader(e *entry.Entry) error {
	return t.tw.WriteHeader(entryToTarHeader(e))
}

func (t *tarWriter) Write(p []byte) (int, error) {
	if err := t.ad.CheckCancel(); err != nil {
		return 0, err
	}
	return t.tw.Write(p)
}

func (t *tarWriter) Close() error {
	return t.tw.Close()
}
