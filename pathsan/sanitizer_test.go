package pathsan_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nabbar/arkive/pathsan"
)

func TestSanitizeNormalPath(t *testing.T) {
	s := pathsan.New("/tmp/dest")
	got := s.Sanitize([]byte("sub/file.txt"))
	require.Equal(t, filepath.Join("/tmp/dest", "sub/file.txt"), got)
}

func TestSanitizeNeutralizesAbsolutePath(t *testing.T) {
	s := pathsan.New("/tmp/dest")
	got := s.Sanitize([]byte("/etc/passwd"))
	// filepath.Join does not special-case a leading "/" on the joined
	// element (unlike e.g. Python's os.path.join), so an advertised
	// absolute path is already neutralized into a path under dest by the
	// join itself, with no need for the escape-fallback branch.
	require.Equal(t, filepath.Join("/tmp/dest", "etc/passwd"), got)
}

func TestSanitizeRejectsParentEscape(t *testing.T) {
	s := pathsan.New("/tmp/dest")
	got := s.Sanitize([]byte("../../etc/passwd"))
	require.Equal(t, filepath.Join("/tmp/dest", "passwd"), got)
}

func TestSanitizeDotDotEscapeFallsBackToBasename(t *testing.T) {
	s := pathsan.New("/tmp/dest")
	got := s.Sanitize([]byte("./../arextract.txt"))
	// Scenario 5: the joined path collapses to /tmp/arextract.txt, outside
	// dest, so the basename fallback puts the file directly under dest.
	require.Equal(t, filepath.Join("/tmp/dest", "arextract.txt"), got)
}

func TestSanitizeWithPrefixRewrite(t *testing.T) {
	s := pathsan.New("/tmp/dest")
	s.SetPrefixRewrite("/tmp/dest/old-top", "/tmp/dest/new-top")

	got := s.Sanitize([]byte("old-top/file.txt"))
	require.Equal(t, filepath.Join("/tmp/dest", "new-top", "file.txt"), got)
}

func TestSanitizeHardlinkTarget(t *testing.T) {
	s := pathsan.New("/tmp/dest")
	got := s.SanitizeHardlinkTarget([]byte("../../etc/shadow"))
	require.Equal(t, filepath.Join("/tmp/dest", "shadow"), got)
}
