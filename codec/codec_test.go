package codec

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nabbar/arkive/formatfilter"
	"github.com/nabbar/arkive/internal/entry"
)

func roundTrip(t *testing.T, format formatfilter.Format, filter formatfilter.Filter) {
	t.Helper()

	dir := t.TempDir()
	dest := filepath.Join(dir, "out.bin")

	ad := NewAdapter(context.Background())
	w, err := OpenWriter(ad, dest, format, filter)
	require.NoError(t, err)

	mt := time.Unix(1700000000, 0).UTC()
	e := &entry.Entry{
		RawPath:    []byte("hello.txt"),
		Type:       entry.Regular,
		Size:       5,
		Mode:       0o644,
		ModifyTime: &mt,
	}
	require.NoError(t, w.WriteHeader(e))
	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, w.Close())

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()

	r, err := OpenReader(ad, f, filepath.Base(dest), "", false)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "hello.txt", got.Path())

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))

	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestRoundTripTarPlain(t *testing.T) {
	roundTrip(t, formatfilter.Tar, formatfilter.FilterNone)
}

func TestRoundTripTarGzip(t *testing.T) {
	roundTrip(t, formatfilter.Tar, formatfilter.Gzip)
}

func TestRoundTripTarBzip2(t *testing.T) {
	roundTrip(t, formatfilter.Tar, formatfilter.Bzip2)
}

func TestRoundTripTarXz(t *testing.T) {
	roundTrip(t, formatfilter.Tar, formatfilter.Xz)
}

func TestRoundTripZip(t *testing.T) {
	roundTrip(t, formatfilter.Zip, formatfilter.FilterNone)
}

func TestRoundTripCpioNewc(t *testing.T) {
	roundTrip(t, formatfilter.CpioNewc, formatfilter.FilterNone)
}

func TestRoundTripArSvr4(t *testing.T) {
	roundTrip(t, formatfilter.ArSvr4, formatfilter.FilterNone)
}

func TestArWriterRejectsLongNames(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.a")

	ad := NewAdapter(context.Background())
	w, err := OpenWriter(ad, dest, formatfilter.ArSvr4, formatfilter.FilterNone)
	require.NoError(t, err)
	defer w.Close()

	e := &entry.Entry{
		RawPath: []byte("a-name-much-longer-than-fifteen-bytes.txt"),
		Type:    entry.Regular,
		Size:    0,
	}
	require.Error(t, w.WriteHeader(e))
}

func TestDetectFilter(t *testing.T) {
	require.Equal(t, formatfilter.Gzip, detectFilter([]byte{0x1f, 0x8b, 0x08}))
	require.Equal(t, formatfilter.Bzip2, detectFilter([]byte("BZh9")))
	require.Equal(t, formatfilter.Xz, detectFilter([]byte{0xFD, '7', 'z', 'X', 'Z', 0x00}))
	require.Equal(t, formatfilter.FilterNone, detectFilter([]byte("plain text")))
}

func TestDetectFormat(t *testing.T) {
	arHeader := append([]byte("!<arch>\n"), make([]byte, 60)...)
	require.Equal(t, formatfilter.ArSvr4, detectFormat(arHeader))

	zipHeader := []byte{0x50, 0x4B, 0x03, 0x04}
	require.Equal(t, formatfilter.Zip, detectFormat(zipHeader))

	require.Equal(t, formatfilter.FormatNone, detectFormat(make([]byte, 300)))
}
