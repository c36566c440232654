package compressor_test

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nabbar/arkive/codec"
	"github.com/nabbar/arkive/compressor"
	"github.com/nabbar/arkive/formatfilter"
)

func writeTempTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("world"), 0o644))
	return src
}

// TestCompressorProducesReadableTar covers the default (!OutputIsDest)
// path: Destination names an output directory and the archive's own name
// is derived from the first source's basename (spec.md §4.5).
func TestCompressorProducesReadableTar(t *testing.T) {
	src := writeTempTree(t)
	destDir := t.TempDir()

	eng := compressor.New(compressor.Config{
		Sources:     []string{src},
		Destination: destDir,
		Format:      formatfilter.Tar,
		Filter:      formatfilter.FilterNone,
	})

	require.NoError(t, eng.Run(context.Background()))

	f, err := os.Open(filepath.Join(destDir, "project.tar"))
	require.NoError(t, err)
	defer f.Close()

	tr := tar.NewReader(f)
	var names []string
	for {
		h, err := tr.Next()
		if err != nil {
			break
		}
		names = append(names, h.Name)
	}
	require.Contains(t, names, "project/a.txt")
	require.Contains(t, names, "project/sub/b.txt")
}

func TestCompressorDestinationCollisionNumbering(t *testing.T) {
	src := writeTempTree(t)
	destDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(destDir, "project.tar"), []byte("existing"), 0o644))

	eng := compressor.New(compressor.Config{
		Sources:     []string{src},
		Destination: destDir,
		Format:      formatfilter.Tar,
		Filter:      formatfilter.FilterNone,
	})

	require.NoError(t, eng.Run(context.Background()))

	_, err := os.Stat(filepath.Join(destDir, "project (1).tar"))
	require.NoError(t, err)
}

// TestCompressorOutputIsDestUsesExactPath covers spec.md §4.5/§6.1's
// output_is_dest branch: Destination is the archive path itself, verbatim,
// with no extension math and no existence check.
func TestCompressorOutputIsDestUsesExactPath(t *testing.T) {
	src := writeTempTree(t)
	archivePath := filepath.Join(t.TempDir(), "custom-name.tar")

	eng := compressor.New(compressor.Config{
		Sources:      []string{src},
		Destination:  archivePath,
		OutputIsDest: true,
		Format:       formatfilter.Tar,
		Filter:       formatfilter.FilterNone,
	})

	require.NoError(t, eng.Run(context.Background()))

	_, err := os.Stat(archivePath)
	require.NoError(t, err)
}

// TestCompressorCreateTopLevelDirectory covers spec.md §4.5's
// create_top_level_directory flag: every entry gets wrapped under an extra
// directory named for the derived archive base name.
func TestCompressorCreateTopLevelDirectory(t *testing.T) {
	src := writeTempTree(t)
	destDir := t.TempDir()

	eng := compressor.New(compressor.Config{
		Sources:                 []string{src},
		Destination:             destDir,
		CreateTopLevelDirectory: true,
		Format:                  formatfilter.Tar,
		Filter:                  formatfilter.FilterNone,
	})

	require.NoError(t, eng.Run(context.Background()))

	f, err := os.Open(filepath.Join(destDir, "project.tar"))
	require.NoError(t, err)
	defer f.Close()

	tr := tar.NewReader(f)
	var names []string
	for {
		h, err := tr.Next()
		if err != nil {
			break
		}
		names = append(names, h.Name)
	}
	require.Contains(t, names, "project/project/a.txt")
	require.Contains(t, names, "project/project/sub/b.txt")
}

// TestCompressorArFamilyFlattensEntryNames covers spec.md §4.5's ar-family
// naming rule: every entry uses just the basename of its source, since ar
// has no directory support, rather than the nested relative path other
// formats use.
func TestCompressorArFamilyFlattensEntryNames(t *testing.T) {
	src := writeTempTree(t)
	destDir := t.TempDir()

	eng := compressor.New(compressor.Config{
		Sources:     []string{src},
		Destination: destDir,
		Format:      formatfilter.ArSvr4,
		Filter:      formatfilter.FilterNone,
	})

	require.NoError(t, eng.Run(context.Background()))

	path := filepath.Join(destDir, "project.a")
	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, fi.Size(), int64(0))

	names := readArMemberNames(t, path)
	require.Contains(t, names, "a.txt")
	require.Contains(t, names, "b.txt")
	for _, n := range names {
		require.False(t, strings.Contains(n, "/"), "ar member name %q should be a flattened basename", n)
	}
}

// readArMemberNames opens path through the same codec.OpenReader path the
// extractor uses and collects every entry's name.
func readArMemberNames(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	ad := codec.NewAdapter(context.Background())
	r, err := codec.OpenReader(ad, f, filepath.Base(path), "", false)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for {
		e, nerr := r.Next()
		if nerr == io.EOF {
			break
		}
		require.NoError(t, nerr)
		names = append(names, e.Path())
		require.NoError(t, r.Skip())
	}
	return names
}
