package codec

import (
	"io"

	"github.com/nabbar/arkive/internal/entry"
)

// rawReader presents a single concatenated stream as one synthetic entry
// (spec.md §4.6.1 raw mode: "treat the whole file as archive content").
type rawReader struct {
	ad          *Adapter
	body        io.Reader
	name        string
	filterCount int
	served      bool
}

func newRawReader(ad *Adapter, body io.Reader, name string, filterCount int) *rawReader {
	return &rawReader{ad: ad, body: body, name: name, filterCount: filterCount}
}

func (r *rawReader) Next() (*entry.Entry, error) {
	if r.served {
		return nil, io.EOF
	}
	r.served = true
	return &entry.Entry{
		RawPath: []byte(r.name),
		Type:    entry.Regular,
		Size:    -1,
	}, nil
}

func (r *rawReader) Read(p []byte) (int, error) {
	if err := r.ad.CheckCancel(); err != nil {
		return 0, err
	}
	return r.body.Read(p)
}

func (r *rawReader) Skip() error {
	_, err := io.Copy(io.Discard, r.body)
	return err
}

func (r *rawReader) FilterCount() int { return r.filterCount }
func (r *rawReader) IsRaw() bool      { return true }
func (r *rawReader) Close() error     { return nil }
