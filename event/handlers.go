package event

// ConflictAction is the host's reply to a Conflict event (spec.md §4.2).
type ConflictAction uint8

const (
	Unhandled ConflictAction = iota
	Overwrite
	ChangeDestination
	Skip
)

// ConflictDecision is the host's reply to a Conflict event. NewPath is only
// meaningful when Action is ChangeDestination.
type ConflictDecision struct {
	Action  ConflictAction
	NewPath string
}

// Handlers holds the host's typed callbacks. Every field is optional; a nil
// handler is treated as returning the zero value (e.g. Unhandled for
// Conflict, "" + false for RequestPassphrase), matching spec.md's "Unhandled
// is treated as Skip" rule.
type Handlers struct {
	// OnScanned fires once at the end of the extractor's scan pass.
	OnScanned func(totalFiles uint64)

	// OnDecideDestinationExtract fires once the extractor has computed a
	// proposed destination and the per-entry output paths. The host may
	// return a replacement destination; ok=false keeps the proposal.
	OnDecideDestinationExtract func(proposed string, entryPaths []string) (replacement string, ok bool)

	// OnDecideDestinationCompress is informational: fired once the
	// compressor has settled on its output path.
	OnDecideDestinationCompress func(chosen string)

	// OnProgress is rate-limited by the engine's notify interval.
	OnProgress func(completedSize, completedFiles, totalSize, totalFiles uint64)

	// OnConflict fires when an extractor write target already exists.
	OnConflict func(path string) ConflictDecision

	// OnRequestPassphrase fires when the extractor discovers an encrypted
	// entry with no passphrase preset. ok=false means the host declined.
	OnRequestPassphrase func() (passphrase string, ok bool)

	// Terminal events: exactly one of these fires per run (spec.md §4.2).
	OnCancelled func()
	OnCompleted func()
	OnError     func(err error)
}

func (h Handlers) scanned(total uint64) {
	if h.OnScanned != nil {
		h.OnScanned(total)
	}
}

func (h Handlers) decideDestinationExtract(proposed string, entries []string) (string, bool) {
	if h.OnDecideDestinationExtract == nil {
		return "", false
	}
	return h.OnDecideDestinationExtract(proposed, entries)
}

func (h Handlers) decideDestinationCompress(chosen string) {
	if h.OnDecideDestinationCompress != nil {
		h.OnDecideDestinationCompress(chosen)
	}
}

func (h Handlers) progress(completedSize, completedFiles, totalSize, totalFiles uint64) {
	if h.OnProgress != nil {
		h.OnProgress(completedSize, completedFiles, totalSize, totalFiles)
	}
}

func (h Handlers) conflict(path string) ConflictDecision {
	if h.OnConflict == nil {
		return ConflictDecision{Action: Unhandled}
	}
	d := h.OnConflict(path)
	return d
}

func (h Handlers) requestPassphrase() (string, bool) {
	if h.OnRequestPassphrase == nil {
		return "", false
	}
	return h.OnRequestPassphrase()
}

func (h Handlers) cancelled() {
	if h.OnCancelled != nil {
		h.OnCancelled()
	}
}

func (h Handlers) completed() {
	if h.OnCompleted != nil {
		h.OnCompleted()
	}
}

func (h Handlers) errored(err error) {
	if h.OnError != nil {
		h.OnError(err)
	}
}
