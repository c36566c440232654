package codec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nabbar/arkive/formatfilter"
	"github.com/nabbar/arkive/internal/entry"
)

func TestLinkResolverCoalescesHardlinks(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("shared"), 0o644))
	require.NoError(t, os.Link(a, b))

	r := NewLinkResolver(formatfilter.Tar)

	p1, s1 := r.Linkify(a, &entry.Entry{RawPath: []byte("a.txt"), Type: entry.Regular, Size: 6})
	require.Nil(t, s1)
	require.Equal(t, entry.Regular, p1.Type)

	p2, s2 := r.Linkify(b, &entry.Entry{RawPath: []byte("b.txt"), Type: entry.Regular, Size: 6})
	require.Nil(t, s2)
	require.Equal(t, entry.Hardlink, p2.Type)
	require.Equal(t, "a.txt", p2.HardlinkTarget)
	require.Equal(t, int64(0), p2.Size)
}

func TestLinkResolverIgnoresDirectories(t *testing.T) {
	r := NewLinkResolver(formatfilter.Tar)
	e := &entry.Entry{RawPath: []byte("dir"), Type: entry.Directory}
	p, s := r.Linkify("/nonexistent", e)
	require.Same(t, e, p)
	require.Nil(t, s)
}
