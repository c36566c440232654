package extractor

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nabbar/arkive/arkerr"
	"github.com/nabbar/arkive/codec"
	"github.com/nabbar/arkive/event"
	"github.com/nabbar/arkive/internal/idcache"
	"github.com/nabbar/arkive/pathsan"
)

var errAlreadyRunning = errors.New("extractor: engine is already running")

// Config describes one extraction run (spec.md §4.6).
type Config struct {
	// Source is the archive file to extract.
	Source string

	// Destination is the directory the extractor proposes via
	// DecideDestination; the host may override it.
	Destination string

	// OutputIsDest, when true, makes Destination the literal destination
	// directory: no common-prefix detection, no synthesized wrapping
	// directory (spec.md §4.6.2/§6.1).
	OutputIsDest bool

	// DeleteAfterExtraction, when true, best-effort deletes Source once
	// extraction completes successfully; deletion errors are ignored
	// (spec.md §4.6.6).
	DeleteAfterExtraction bool

	// Passphrase, if known in advance, is tried before prompting the host.
	Passphrase string

	// PrefixRewriteOld/New, if PrefixRewriteOld is non-empty, rewrites the
	// archive's detected common top-level directory onto a new name
	// (spec.md §4.6.3).
	PrefixRewriteOld string
	PrefixRewriteNew string

	Handlers       event.Handlers
	DispatchMode   event.DispatchMode
	NotifyInterval time.Duration
}

// Engine runs one Config at a time.
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

type scannedEntry struct {
	name string
	size int64
}

// Run opens Config.Source, scans it, negotiates a destination, then
// extracts every entry (spec.md §4.6.1 through §4.6.6).
func (eng *Engine) Run(ctx context.Context) error {
	if !eng.sem.TryAcquire(1) {
		return errAlreadyRunning
	}
	defer eng.sem.Release(1)

	ad := codec.NewAdapter(ctx)

	f, err := os.Open(eng.cfg.Source)
	if err != nil {
		wrapped := arkerr.New(arkerr.KindIO, eng.cfg.Source, err)
		eng.bus.EmitError(wrapped)
		return wrapped
	}
	defer f.Close()

	baseName := filepath.Base(eng.cfg.Source)

	entries, _, passphrase, err := eng.scanPass(ad, f, baseName, eng.cfg.Passphrase)
	if err != nil {
		eng.finish(err)
		return err
	}
	if len(entries) == 0 {
		wrapped := arkerr.New(arkerr.KindEmptyArchive, baseName, nil)
		eng.finish(wrapped)
		return wrapped
	}

	names := make([]string, len(entries))
	var totalSize uint64
	for i, se := range entries {
		names[i] = se.name
		if se.size > 0 {
			totalSize += uint64(se.size)
		}
	}
	eng.bus.EmitScanned(uint64(len(entries)))

	proposed := eng.cfg.Destination
	wrapDir := ""
	if !eng.cfg.OutputIsDest {
		wrapDir = decideWrapDir(names, baseName)
	}

	if replacement, ok := eng.bus.EmitDecideDestinationExtract(proposed, names); ok && replacement != "" {
		proposed = replacement
	}

	finalDest := proposed
	if wrapDir != "" {
		finalDest = filepath.Join(proposed, wrapDir)
	}

	if err := os.MkdirAll(finalDest, 0o755); err != nil {
		wrapped := arkerr.New(arkerr.KindIO, finalDest, err)
		eng.finish(wrapped)
		return wrapped
	}

	sanitizer := pathsan.New(finalDest)
	if eng.cfg.PrefixRewriteOld != "" {
		oldPrefix, newPrefix := eng.cfg.PrefixRewriteOld, eng.cfg.PrefixRewriteNew
		if !filepath.IsAbs(oldPrefix) {
			oldPrefix = filepath.Join(finalDest, oldPrefix)
		}
		if !filepath.IsAbs(newPrefix) {
			newPrefix = filepath.Join(finalDest, newPrefix)
		}
		sanitizer.SetPrefixRewrite(oldPrefix, newPrefix)
	}

	r, _, err := eng.openReader(ad, f, baseName, passphrase)
	if err != nil {
		eng.finish(err)
		return err
	}
	defer r.Close()

	primaries := map[string]string{}
	var dirs []dirRecord
	var completedFiles, completedSize uint64
	total := uint64(len(entries))
	cache := idcache.New()

	for {
		if cerr := ad.CheckCancel(); cerr != nil {
			eng.finish(cerr)
			return cerr
		}

		e, nerr := r.Next()
		if nerr == io.EOF {
			break
		}
		if nerr != nil {
			wrapped := arkerr.New(arkerr.KindIO, "", nerr)
			eng.finish(wrapped)
			return wrapped
		}

		skipped, werr := eng.applyEntry(ad, sanitizer, e, r, primaries, &dirs, cache)
		if werr != nil {
			eng.finish(werr)
			return werr
		}
		if !skipped {
			completedFiles++
			if e.Size > 0 {
				completedSize += uint64(e.Size)
			}
		}
		eng.bus.EmitProgress(completedSize, completedFiles, totalSize, total, false)
	}

	reapplyDirectoryAttributes(dirs, cache)

	eng.bus.EmitProgress(completedSize, completedFiles, totalSize, total, true)

	if eng.cfg.DeleteAfterExtraction {
		_ = f.Close()
		_ = os.Remove(eng.cfg.Source)
	}

	eng.bus.EmitCompleted()
	return nil
}

func (eng *Engine) finish(err error) {
	if arkerr.IsKind(err, arkerr.KindCancelled) {
		eng.bus.EmitCancelled()
		return
	}
	eng.bus.EmitError(err)
}

// openReader tries full-archive mode first, falling back to raw mode on
// KindNotAnArchive (spec.md §4.6.1). A raw session whose filter count is
// <= 1 (no real compression layer on top of an unrecognized container) is
// rejected: it would mean "extracting" an arbitrary file as if it were an
// archive of itself (spec.md §9).
func (eng *Engine) openReader(ad *codec.Adapter, f *os.File, baseName, passphrase string) (codec.Reader, bool, error) {
	r, err := codec.OpenReader(ad, f, baseName, passphrase, false)
	if err == nil {
		return r, false, nil
	}
	if !arkerr.IsKind(err, arkerr.KindNotAnArchive) {
		return nil, false, err
	}

	r, err = codec.OpenReader(ad, f, baseName, passphrase, true)
	if err != nil {
		return nil, true, err
	}
	if r.FilterCount() <= 1 {
		_ = r.Close()
		return nil, true, arkerr.New(arkerr.KindNotAnArchive, baseName, nil)
	}
	return r, true, nil
}

// scanPass walks every entry without writing bodies, collecting names and
// sizes and retrying with a fresh passphrase whenever the codec reports one
// is needed or wrong (spec.md §4.6.1, §8 scenarios 7/8).
func (eng *Engine) scanPass(ad *codec.Adapter, f *os.File, baseName, passphrase string) ([]scannedEntry, bool, string, error) {
	for {
		r, isRaw, err := eng.openReader(ad, f, baseName, passphrase)
		if err != nil {
			return nil, isRaw, passphrase, err
		}

		var entries []scannedEntry
		var walkErr error
		for {
			e, nerr := r.Next()
			if nerr == io.EOF {
				break
			}
			if nerr != nil {
				walkErr = nerr
				break
			}
			entries = append(entries, scannedEntry{name: e.Path(), size: e.Size})
			if serr := r.Skip(); serr != nil {
				walkErr = serr
				break
			}
		}
		_ = r.Close()

		if walkErr == nil {
			return entries, isRaw, passphrase, nil
		}

		if arkerr.IsKind(walkErr, arkerr.KindPassphraseRequired) || arkerr.IsKind(walkErr, arkerr.KindIncorrectPassphrase) {
			newPass, ok := eng.bus.EmitRequestPassphrase()
			if !ok {
				return nil, isRaw, passphrase, walkErr
			}
			passphrase = newPass
			continue
		}

		return nil, isRaw, passphrase, walkErr
	}
}

// decideWrapDir implements spec.md §4.6.2's "Set destination" algorithm: it
// returns the synthetic top-level directory name the extractor should
// create under Destination, or "" if the archive is self-contained and no
// wrapping directory is needed.
//
// commonTopSegment finds the one path segment every entry shares (the
// archive's own embedded root, if it has one). Its basename is compared,
// both as-is and with its own extension stripped, against the
// host-suggested destination name (the archive's base name, extension
// stripped); either match means the archive is self-contained and the
// existing common prefix already is that root, so no extra wrapping is
// needed. Otherwise the common prefix (if any) is discarded and everything
// is nested under a freshly synthesized directory named for the archive.
func decideWrapDir(names []string, archiveBaseName string) string {
	suggested := strings.TrimSuffix(archiveBaseName, filepath.Ext(archiveBaseName))

	prefix := commonTopSegment(names)
	if prefix != "" {
		strippedPrefix := strings.TrimSuffix(prefix, filepath.Ext(prefix))
		if prefix == suggested || strippedPrefix == suggested {
			return ""
		}
	}

	return suggested
}

// commonTopSegment returns the first path segment shared by every name, or
// "" if the names don't all share one.
func commonTopSegment(names []string) string {
	if len(names) == 0 {
		return ""
	}
	first := topSegment(names[0])
	if first == "" {
		return ""
	}
	for _, n := range names[1:] {
		if topSegment(n) != first {
			return ""
		}
	}
	return first
}

func topSegment(name string) string {
	name = strings.TrimPrefix(name, "/")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[:i]
	}
	return name
}

const readChunkSize = codec.ChunkSize
