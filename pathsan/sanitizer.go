package pathsan

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Sanitizer maps archive-advertised pathnames to destination paths rooted
// under Dest (spec.md §4.4). The zero value is not usable; use New.
type Sanitizer struct {
	dest string

	// prefix rewrite, set via SetPrefixRewrite (spec.md §4.6.3).
	hasPrefix  bool
	oldPrefix  string
	newPrefix  string
}

// New creates a Sanitizer rooted at dest. dest is cleaned but not resolved
// (no symlink dereferencing, per spec.md §4.4).
func New(dest string) *Sanitizer {
	return &Sanitizer{dest: filepath.Clean(dest)}
}

// Dest returns the destination directory this sanitizer is rooted at.
func (s *Sanitizer) Dest() string {
	return s.dest
}

// SetPrefixRewrite records an old_prefix -> new_prefix rewrite (spec.md
// §4.6.3): when the client renames the archive's detected common
// top-level, every sanitized path is recomputed relative to oldPrefix and
// re-joined onto newPrefix.
func (s *Sanitizer) SetPrefixRewrite(oldPrefix, newPrefix string) {
	s.hasPrefix = true
	s.oldPrefix = filepath.Clean(oldPrefix)
	s.newPrefix = filepath.Clean(newPrefix)
}

// Sanitize implements the algorithm of spec.md §4.4.
func (s *Sanitizer) Sanitize(rawPath []byte) string {
	name := decode(rawPath)

	candidate := filepath.Join(s.dest, name)
	if !s.isWithinDest(candidate) {
		candidate = filepath.Join(s.dest, filepath.Base(name))
	}

	if s.hasPrefix {
		candidate = s.rewritePrefix(candidate)
	}

	return candidate
}

// decode implements step 1: UTF-8 if possible, else the raw bytes kept
// unchanged in the returned string so path joining still works.
func decode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return string(raw)
}

// isWithinDest reports whether candidate is equal to, or a strict
// descendant of, s.dest (spec.md §4.4 step 3). This single check catches
// absolute paths, ".." escapes, and paths rooted outside dest, because
// filepath.Join + filepath.Clean has already resolved ".." segments
// textually before we compare.
func (s *Sanitizer) isWithinDest(candidate string) bool {
	if candidate == s.dest {
		return true
	}
	return strings.HasPrefix(candidate, s.dest+string(filepath.Separator))
}

// rewritePrefix recomputes candidate's path relative to oldPrefix and
// joins it onto newPrefix (spec.md §4.4 step 4). If candidate does not
// fall under oldPrefix (can happen once the basename fallback already
// fired), it is returned unchanged.
func (s *Sanitizer) rewritePrefix(candidate string) string {
	rel, err := filepath.Rel(s.oldPrefix, candidate)
	if err != nil || strings.HasPrefix(rel, "..") {
		return candidate
	}
	rewritten := filepath.Join(s.newPrefix, rel)
	if !s.isWithinDest(rewritten) {
		return filepath.Join(s.dest, filepath.Base(candidate))
	}
	return rewritten
}

// SanitizeHardlinkTarget applies the same procedure to a hardlink's target
// pathname (spec.md §4.4, last paragraph).
func (s *Sanitizer) SanitizeHardlinkTarget(rawTarget []byte) string {
	return s.Sanitize(rawTarget)
}
