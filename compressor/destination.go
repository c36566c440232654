package compressor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nabbar/arkive/arkerr"
)

// resolveDestination implements spec.md §4.5's destination-selection
// algorithm.
//
// When outputIsDest is set, output is the archive path verbatim: no
// extension is appended and no existence check or collision numbering
// happens, matching "the archive path is the output path, unchanged".
//
// Otherwise output names a directory: the archive's base name is derived
// from base (the first source's own basename, extension stripped), ext is
// appended, and on a name collision "(n)" is inserted before the extension
// with increasing n until a free name is found. The directory is created,
// including any missing parents, before the caller opens a writer onto it.
func resolveDestination(output string, outputIsDest bool, base, ext string) (string, error) {
	if outputIsDest {
		return output, nil
	}

	if err := os.MkdirAll(output, 0o755); err != nil {
		return "", arkerr.New(arkerr.KindIO, output, err)
	}

	candidate := filepath.Join(output, base+ext)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate, nil
	}

	for n := 1; ; n++ {
		candidate = filepath.Join(output, fmt.Sprintf("%s (%d)%s", base, n, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
}

// deriveBaseName strips source's own extension from its basename, the
// stand-in archive name used both to name the output file (when
// !OutputIsDest) and, when CreateTopLevelDirectory is set, as the synthetic
// top-level directory wrapping every entry (spec.md §4.5).
func deriveBaseName(source string) string {
	name := filepath.Base(filepath.Clean(source))
	return strings.TrimSuffix(name, filepath.Ext(name))
}
