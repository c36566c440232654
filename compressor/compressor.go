package compressor

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/nabbar/arkive/arkerr"
	"github.com/nabbar/arkive/codec"
	"github.com/nabbar/arkive/event"
	"github.com/nabbar/arkive/formatfilter"
	"github.com/nabbar/arkive/internal/entry"
	"github.com/nabbar/arkive/internal/idcache"
)

var errAlreadyRunning = errors.New("compressor: engine is already running")

// Config describes one compression run (spec.md §4.5).
type Config struct {
	// Sources are the file/directory paths to archive.
	Sources []string

	// Destination is, by default, the directory the archive is written
	// into; its name is derived from Sources[0]. When OutputIsDest is set,
	// Destination is instead the exact archive path to write, unchanged.
	Destination string

	// OutputIsDest, when true, treats Destination as the literal archive
	// path: no extension is appended, no collision numbering, no existence
	// check (spec.md §4.5/§6.1).
	OutputIsDest bool

	// CreateTopLevelDirectory, when true, wraps every entry under a
	// synthetic top-level directory named after the derived archive base
	// name (spec.md §4.5). Ignored for ar-family formats, which have no
	// directory support and always flatten to a bare basename.
	CreateTopLevelDirectory bool

	Format formatfilter.Format
	Filter formatfilter.Filter

	Handlers       event.Handlers
	DispatchMode   event.DispatchMode
	NotifyInterval time.Duration
}

// Engine runs one Config at a time (spec.md §5's single-driver-goroutine
// rule, mirrored from the teacher's golang.org/x/sync usage).
type Engine struct {
	cfg Config
	bus *event.Bus
	sem *semaphore.Weighted
}

// New creates an Engine for cfg.
func New(cfg Config) *Engine {
	return &Engine{
		cfg: cfg,
		bus: event.New(cfg.Handlers, cfg.DispatchMode, cfg.NotifyInterval),
		sem: semaphore.NewWeighted(1),
	}
}

// Bus exposes the event bus so the host can call Pump in MainThread mode.
func (eng *Engine) Bus() *event.Bus {
	return eng.bus
}

// Run walks Config.Sources and writes one new archive (spec.md §4.5).
func (eng *Engine) Run(ctx context.Context) error {
	if !eng.sem.TryAcquire(1) {
		return errAlreadyRunning
	}
	defer eng.sem.Release(1)

	ad := codec.NewAdapter(ctx)

	ext, err := formatfilter.Extension(eng.cfg.Format, eng.cfg.Filter)
	if err != nil {
		eng.bus.EmitError(err)
		return err
	}

	var topLevelBase string
	if len(eng.cfg.Sources) > 0 {
		topLevelBase = deriveBaseName(eng.cfg.Sources[0])
	}

	dest, err := resolveDestination(eng.cfg.Destination, eng.cfg.OutputIsDest, topLevelBase, ext)
	if err != nil {
		eng.bus.EmitError(err)
		return err
	}
	eng.bus.EmitDecideDestinationCompress(dest)

	plan, err := eng.planWalk(topLevelBase)
	if err != nil {
		eng.bus.EmitError(err)
		return err
	}
	eng.bus.EmitScanned(uint64(len(plan)))

	// Written under a unique sibling name and renamed onto dest only once
	// fully closed, so a reader (or a crash) never observes a half-written
	// archive at the path the host was told about.
	tempDest := dest + ".tmp-" + uuid.NewString()
	w, err := codec.OpenWriter(ad, tempDest, eng.cfg.Format, eng.cfg.Filter)
	if err != nil {
		eng.bus.EmitError(err)
		return err
	}

	resolver := codec.NewLinkResolver(eng.cfg.Format)

	var totalSize uint64
	for _, p := range plan {
		if p.entry.Type == entry.Regular {
			totalSize += uint64(p.entry.Size)
		}
	}

	var completedSize, completedFiles uint64

	runErr := func() error {
		for _, p := range plan {
			if err := ad.CheckCancel(); err != nil {
				return err
			}

			if skipForFormat(eng.cfg.Format, p.entry.Type) {
				continue
			}

			primary, sparse := resolver.Linkify(p.fullPath, p.entry)

			if err := w.WriteHeader(primary); err != nil {
				return arkerr.New(arkerr.KindCodec, primary.Path(), err)
			}
			if primary.Type == entry.Regular && primary.Size > 0 {
				n, err := streamFileBody(ad, w, p.fullPath)
				if err != nil {
					return arkerr.New(arkerr.KindIO, p.fullPath, err)
				}
				completedSize += uint64(n)
			}

			if sparse != nil {
				if err := w.WriteHeader(sparse); err != nil {
					return arkerr.New(arkerr.KindCodec, sparse.Path(), err)
				}
			}

			completedFiles++
			eng.bus.EmitProgress(completedSize, completedFiles, totalSize, uint64(len(plan)), false)
		}

		for _, trailing := range resolver.Flush() {
			if err := w.WriteHeader(trailing); err != nil {
				return arkerr.New(arkerr.KindCodec, trailing.Path(), err)
			}
		}

		return nil
	}()

	closeErr := w.Close()

	switch {
	case runErr != nil:
		_ = os.Remove(tempDest)
		ad.Fail(runErr)
		if arkerr.IsKind(runErr, arkerr.KindCancelled) {
			eng.bus.EmitCancelled()
		} else {
			eng.bus.EmitError(runErr)
		}
		return runErr
	case closeErr != nil:
		_ = os.Remove(tempDest)
		eng.bus.EmitError(closeErr)
		return closeErr
	}

	if err := os.Rename(tempDest, dest); err != nil {
		_ = os.Remove(tempDest)
		wrapped := arkerr.New(arkerr.KindIO, dest, err)
		eng.bus.EmitError(wrapped)
		return wrapped
	}

	eng.bus.EmitProgress(completedSize, completedFiles, totalSize, uint64(len(plan)), true)
	eng.bus.EmitCompleted()
	return nil
}

type planEntry struct {
	fullPath string
	entry    *entry.Entry
}

// planWalk walks every configured source, producing one planEntry per
// filesystem object with its archive-relative path already computed
// (spec.md §4.5's naming: each source's own basename becomes the archive
// root, mirroring the teacher's stripPath convention in
// archive_teacher/tar/writer.go's createTar).
//
// The ar family has no directory support, so spec.md §4.5 has it flatten
// every entry to the bare basename of its source file instead of the usual
// "[<top-level>/]<root-basename>/<relative-path>" naming; topLevelBase
// prepends CreateTopLevelDirectory's synthetic wrapping directory for every
// other format.
func (eng *Engine) planWalk(topLevelBase string) ([]planEntry, error) {
	var out []planEntry
	arFamily := eng.cfg.Format.IsArFamily()
	cache := idcache.New()

	for _, src := range eng.cfg.Sources {
		src = filepath.Clean(src)
		parent := filepath.Dir(src)

		err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			var archivePath string
			if arFamily {
				if p == src && d.IsDir() {
					return nil
				}
				archivePath = filepath.Base(p)
			} else {
				rel, rerr := filepath.Rel(parent, p)
				if rerr != nil {
					return rerr
				}
				archivePath = filepath.ToSlash(rel)
				if archivePath == "." || archivePath == "" {
					return nil
				}
				if eng.cfg.CreateTopLevelDirectory && topLevelBase != "" {
					archivePath = filepath.ToSlash(filepath.Join(topLevelBase, archivePath))
				}
			}

			e, eerr := entry.FromLstat(p, archivePath, cache)
			if eerr != nil {
				return eerr
			}

			out = append(out, planEntry{fullPath: p, entry: e})
			return nil
		})
		if err != nil {
			return nil, arkerr.New(arkerr.KindIO, src, err)
		}
	}

	return out, nil
}

// skipForFormat applies the per-format restrictions of spec.md §4.5: the
// ar family holds regular files only, and zip has no portable encoding for
// device/fifo/socket special files.
func skipForFormat(format formatfilter.Format, t entry.Type) bool {
	if format.IsArFamily() {
		return t != entry.Regular
	}
	if format == formatfilter.Zip {
		switch t {
		case entry.Fifo, entry.Socket, entry.BlockDevice, entry.CharDevice:
			return true
		}
	}
	return false
}

func streamFileBody(ad *codec.Adapter, w codec.Writer, fullPath string) (int64, error) {
	f, err := os.Open(fullPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return copyBody(ad, w, f)
}
