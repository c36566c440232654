package codec

import (
	"fmt"
	"io"

	"github.com/nabbar/arkive/arkerr"
	"github.com/nabbar/arkive/internal/entry"
)

// arWriter emits the SVR4/GNU common ar variant (see reader_ar.go). Entry
// names longer than 15 bytes would need the GNU long-filename table, which
// requires buffering the whole member list before the first byte is
// written; streaming WriteHeader/Write doesn't allow that lookahead, so
// long names are rejected rather than silently truncated.
type arWriter struct {
	ad         *Adapter
	w          io.Writer
	wroteMagic bool
	pending    int64
	pad        bool
}

func newArWriter(ad *Adapter, w io.Writer) *arWriter {
	return &arWriter{ad: ad, w: w}
}

func (a *arWriter) WriteHeader(e *entry.Entry) error {
	if err := a.padPrevious(); err != nil {
		return err
	}
	if !a.wroteMagic {
		if _, err := io.WriteString(a.w, arGlobalMagic); err != nil {
			return err
		}
		a.wroteMagic = true
	}

	name := e.Path() + "/"
	if len(name) > 16 {
		return arkerr.New(arkerr.KindInvalidFormat, e.Path(), fmt.Errorf("ar: name too long for fixed-width header: %q", e.Path()))
	}

	header := fmt.Sprintf("%-16s%-12d%-6d%-6d%-8o%-10d`\n",
		name, 0, e.UID, e.GID, e.Mode&0o7777, e.Size)
	if _, err := io.WriteString(a.w, header); err != nil {
		return err
	}

	a.pending = e.Size
	a.pad = e.Size%2 != 0
	return nil
}

func (a *arWriter) Write(p []byte) (int, error) {
	if err := a.ad.CheckCancel(); err != nil {
		return 0, err
	}
	n, err := a.w.Write(p)
	a.pending -= int64(n)
	return n, err
}

func (a *arWriter) padPrevious() error {
	if a.pad {
		if _, err := a.w.Write([]byte{'\n'}); err != nil {
			return err
		}
		a.pad = false
	}
	return nil
}

func (a *arWriter) Close() error {
	return a.padPrevious()
}
