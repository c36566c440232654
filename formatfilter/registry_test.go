package formatfilter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nabbar/arkive/arkerr"
	"github.com/nabbar/arkive/formatfilter"
)

func TestExtension(t *testing.T) {
	ext, err := formatfilter.Extension(formatfilter.Tar, formatfilter.Gzip)
	require.NoError(t, err)
	require.Equal(t, ".tar.gz", ext)

	ext, err = formatfilter.Extension(formatfilter.Zip, formatfilter.FilterNone)
	require.NoError(t, err)
	require.Equal(t, ".zip", ext)
}

func TestExtensionInvalid(t *testing.T) {
	_, err := formatfilter.Extension(formatfilter.Format(200), formatfilter.FilterNone)
	require.Error(t, err)
	require.True(t, arkerr.IsKind(err, arkerr.KindInvalidFormat))

	_, err = formatfilter.Extension(formatfilter.Tar, formatfilter.Filter(200))
	require.Error(t, err)
	require.True(t, arkerr.IsKind(err, arkerr.KindInvalidFilter))
}

func TestCodecIDsAreStableAndNonZero(t *testing.T) {
	for _, f := range formatfilter.Formats() {
		id, err := formatfilter.CodecFormatID(f)
		require.NoError(t, err)
		require.NotZero(t, id)
	}

	for _, f := range formatfilter.Filters() {
		id, err := formatfilter.CodecFilterID(f)
		require.NoError(t, err)
		require.NotZero(t, id)
	}
}

func TestDescriptionAndMimeType(t *testing.T) {
	desc, err := formatfilter.Description(formatfilter.Tar, formatfilter.Gzip)
	require.NoError(t, err)
	require.Contains(t, desc, "TAR")
	require.Contains(t, desc, "gzip")

	mime, err := formatfilter.MimeType(formatfilter.Tar, formatfilter.Gzip)
	require.NoError(t, err)
	require.Contains(t, mime, "tar")
	require.Contains(t, mime, "gzip")
}

func TestRoundTripTextMarshal(t *testing.T) {
	for _, f := range formatfilter.Formats() {
		b, err := f.MarshalText()
		require.NoError(t, err)

		var got formatfilter.Format
		require.NoError(t, got.UnmarshalText(b))
		require.Equal(t, f, got)
	}
}
