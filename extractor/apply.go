package extractor

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nabbar/arkive/arkerr"
	"github.com/nabbar/arkive/codec"
	"github.com/nabbar/arkive/event"
	"github.com/nabbar/arkive/internal/entry"
	"github.com/nabbar/arkive/internal/idcache"
	"github.com/nabbar/arkive/pathsan"
)

// dirRecord defers a directory's mode/mtime/ownership application to the
// post-extraction pass (spec.md §4.6.5): applying it immediately would have
// its mtime clobbered by every file later written inside it.
type dirRecord struct {
	path  string
	entry *entry.Entry
}

// applyEntry writes one archive entry to disk, resolving conflicts first.
// skip reports an entry the host chose not to write (spec.md's "Unhandled
// is treated as Skip" default for OnConflict). cache resolves owner/group
// names back to uid/gid for ownership restoration (spec.md §4.6.4 step 6);
// with a nil cache, ownership is restored from the entry's numeric uid/gid
// only, without name resolution.
func (eng *Engine) applyEntry(ad *codec.Adapter, sanitizer *pathsan.Sanitizer, e *entry.Entry, r codec.Reader, primaries map[string]string, dirs *[]dirRecord, cache *idcache.Cache) (skip bool, err error) {
	archivePath := e.Path()
	dest := sanitizer.Sanitize(e.RawPath)

	if e.Type.IsConflictCandidate() {
		for {
			fi, statErr := os.Lstat(dest)
			if statErr != nil {
				break
			}

			if e.Type != entry.Directory && fi.IsDir() {
				empty, eerr := dirIsEmpty(dest)
				if eerr != nil {
					return false, arkerr.New(arkerr.KindIO, dest, eerr)
				}
				if !empty {
					return false, arkerr.New(arkerr.KindNotEmpty, dest, nil)
				}
			}

			decision := eng.bus.EmitConflict(dest)
			switch decision.Action {
			case event.Overwrite:
				if rmErr := os.RemoveAll(dest); rmErr != nil {
					return false, arkerr.New(arkerr.KindIO, dest, rmErr)
				}
			case event.ChangeDestination:
				if decision.NewPath == "" {
					if serr := r.Skip(); serr != nil {
						return false, arkerr.New(arkerr.KindIO, dest, serr)
					}
					return true, nil
				}
				// Substitute and re-check for conflict at the new path
				// (spec.md §4.6.4 step 4): loop rather than fall straight
				// through to the write, or redirecting into another
				// occupied path would silently overwrite it.
				dest = decision.NewPath
				continue
			default: // event.Unhandled, event.Skip
				if serr := r.Skip(); serr != nil {
					return false, arkerr.New(arkerr.KindIO, dest, serr)
				}
				return true, nil
			}
			break
		}
	}

	switch e.Type {
	case entry.Directory:
		if mkErr := os.MkdirAll(dest, 0o755); mkErr != nil {
			return false, arkerr.New(arkerr.KindIO, dest, mkErr)
		}
		*dirs = append(*dirs, dirRecord{path: dest, entry: e})
		return false, nil

	case entry.Symlink:
		if mkErr := os.MkdirAll(filepath.Dir(dest), 0o755); mkErr != nil {
			return false, arkerr.New(arkerr.KindIO, dest, mkErr)
		}
		if lnErr := os.Symlink(e.SymlinkTarget, dest); lnErr != nil {
			return false, arkerr.New(arkerr.KindIO, dest, lnErr)
		}
		chownEntry(dest, e, cache, true)
		return false, nil

	case entry.Hardlink:
		primaryDest, ok := primaries[e.HardlinkTarget]
		if !ok {
			return false, arkerr.New(arkerr.KindIO, dest, errUnknownHardlinkTarget(e.HardlinkTarget))
		}
		if mkErr := os.MkdirAll(filepath.Dir(dest), 0o755); mkErr != nil {
			return false, arkerr.New(arkerr.KindIO, dest, mkErr)
		}
		if lnErr := os.Link(primaryDest, dest); lnErr != nil {
			return false, arkerr.New(arkerr.KindIO, dest, lnErr)
		}
		return false, nil

	case entry.Fifo, entry.Socket, entry.BlockDevice, entry.CharDevice:
		// Special files have no portable pure-Go creation path; skip rather
		// than fail the whole run over one device node.
		if serr := r.Skip(); serr != nil {
			return false, arkerr.New(arkerr.KindIO, dest, serr)
		}
		return true, nil

	default: // entry.Regular
		if mkErr := os.MkdirAll(filepath.Dir(dest), 0o755); mkErr != nil {
			return false, arkerr.New(arkerr.KindIO, dest, mkErr)
		}
		if werr := writeRegularFile(ad, r, dest, e, cache); werr != nil {
			return false, werr
		}
		primaries[archivePath] = dest
		return false, nil
	}
}

func writeRegularFile(ad *codec.Adapter, r codec.Reader, dest string, e *entry.Entry, cache *idcache.Cache) error {
	perm := os.FileMode(0o644)
	if e.Mode != 0 {
		perm = os.FileMode(e.Mode & 0o7777)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return arkerr.New(arkerr.KindIO, dest, err)
	}
	defer out.Close()

	buf := make([]byte, readChunkSize)
	for {
		if cerr := ad.CheckCancel(); cerr != nil {
			return cerr
		}
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return arkerr.New(arkerr.KindIO, dest, werr)
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			return arkerr.New(arkerr.KindIO, dest, rerr)
		}
	}

	if e.ModifyTime != nil {
		_ = os.Chtimes(dest, *e.ModifyTime, *e.ModifyTime)
	}
	chownEntry(dest, e, cache, false)
	return nil
}

// chownEntry restores ownership, preferring the entry's owner/group name
// (resolved through cache to this host's uid/gid) and falling back to the
// entry's own numeric uid/gid when no name is recorded or the name is
// unknown here (spec.md §4.6.4 step 6). Errors are swallowed, not fatal: a
// host extracting as a non-root user routinely can't chown to arbitrary
// owners. isSymlink selects Lchown so a symlink entry's own ownership is
// set without following it (spec.md §4.6.4 step 6's "do not follow
// symlinks when applying").
func chownEntry(dest string, e *entry.Entry, cache *idcache.Cache, isSymlink bool) {
	if e.UID == 0 && e.GID == 0 && e.Owner == "" && e.Group == "" {
		return
	}

	uid, gid := e.UID, e.GID
	if cache != nil {
		if resolved, ok := cache.UID(e.Owner); ok {
			uid = resolved
		}
		if resolved, ok := cache.GID(e.Group); ok {
			gid = resolved
		}
	}

	if isSymlink {
		_ = os.Lchown(dest, uid, gid)
	} else {
		_ = os.Chown(dest, uid, gid)
	}
}

// dirIsEmpty reports whether dir contains no entries. Used to distinguish
// an empty directory (fine to step into or replace) from a non-empty one
// colliding with a non-directory entry, which spec.md §4.6.4 step 3 calls
// out as a hard NotEmpty failure rather than a host-resolvable conflict.
func dirIsEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// reapplyDirectoryAttributes sets each directory's mode/mtime/ownership
// after every file has been extracted, deepest first so a later Chtimes on
// a parent doesn't get clobbered by a child created afterwards (spec.md
// §4.6.5).
func reapplyDirectoryAttributes(dirs []dirRecord, cache *idcache.Cache) {
	for i := len(dirs) - 1; i >= 0; i-- {
		d := dirs[i]
		if d.entry.Mode != 0 {
			_ = os.Chmod(d.path, os.FileMode(d.entry.Mode&0o7777))
		}
		mt := time.Now()
		if d.entry.ModifyTime != nil {
			mt = *d.entry.ModifyTime
		}
		_ = os.Chtimes(d.path, mt, mt)
		chownEntry(d.path, d.entry, cache, false)
	}
}

type unknownHardlinkTargetError struct {
	target string
}

func (e unknownHardlinkTargetError) Error() string {
	return "extractor: hardlink target not yet extracted: " + e.target
}

func errUnknownHardlinkTarget(target string) error {
	return unknownHardlinkTargetError{target: target}
}
