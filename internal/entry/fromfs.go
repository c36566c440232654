package entry

import (
	"os"
	"syscall"

	"github.com/nabbar/arkive/internal/idcache"
)

// FromLstat builds an Entry describing the filesystem object at fullPath,
// using archivePath as its RawPath (the compressor engine picks archivePath
// relative to the source walk's common root, spec.md §4.5). Owner/group
// names, uid/gid, nlink and device numbers are filled in on platforms where
// os.FileInfo.Sys() is a *syscall.Stat_t; elsewhere they are left zero,
// degrading gracefully rather than failing to build. cache resolves the
// uid/gid to names, memoized for the engine's run (spec.md §3); pass nil to
// skip name resolution entirely.
func FromLstat(fullPath, archivePath string, cache *idcache.Cache) (*Entry, error) {
	fi, err := os.Lstat(fullPath)
	if err != nil {
		return nil, err
	}

	e := &Entry{
		RawPath: []byte(archivePath),
		Size:    fi.Size(),
		Mode:    uint32(fi.Mode().Perm()),
	}

	mt := fi.ModTime()
	e.ModifyTime = &mt

	switch {
	case fi.Mode()&os.ModeSymlink != 0:
		e.Type = Symlink
		target, lerr := os.Readlink(fullPath)
		if lerr == nil {
			e.SymlinkTarget = target
		}
	case fi.IsDir():
		e.Type = Directory
	case fi.Mode()&os.ModeNamedPipe != 0:
		e.Type = Fifo
	case fi.Mode()&os.ModeSocket != 0:
		e.Type = Socket
	case fi.Mode()&os.ModeDevice != 0:
		if fi.Mode()&os.ModeCharDevice != 0 {
			e.Type = CharDevice
		} else {
			e.Type = BlockDevice
		}
	default:
		e.Type = Regular
	}

	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		e.UID = int(st.Uid)
		e.GID = int(st.Gid)
		e.Nlink = int(st.Nlink)
		e.Rdev = uint64(st.Rdev)

		if cache != nil {
			e.Owner = cache.UserName(e.UID)
			e.Group = cache.GroupName(e.GID)
		}
	}

	return e, nil
}
