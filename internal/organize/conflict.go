package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Answer is a response to a duplicate-name prompt under the ask policy.
type Answer int

const (
	// AnswerRename places the file under the next free numbered name.
	AnswerRename Answer = iota
	// AnswerSkip leaves the source in place.
	AnswerSkip
	// AnswerCancel stops the run; files not yet started are left untouched.
	AnswerCancel
)

// Prompt describes one duplicate-name conflict presented to an AskFunc.
type Prompt struct {
	Source   string
	Dest     string
	Proposed string
}

// AskFunc decides a conflict interactively. It runs on the single execution
// worker the ask policy enforces, so it may block on terminal input.
type AskFunc func(Prompt) Answer

// claims tracks destination paths reserved by this run. Reservations are
// held for the whole run so two sources sharing a base name can never race
// to the same numbered slot.
type claims struct {
	mu    sync.Mutex
	taken map[string]struct{}
}

func newClaims() *claims {
	return &claims{taken: make(map[string]struct{})}
}

// reserve claims dest if it is free within the run. It reports whether the
// claim succeeded; a false return means another file in this run already
// targets that path.
func (c *claims) reserve(dest string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.taken[dest]; ok {
		return false
	}
	c.taken[dest] = struct{}{}
	return true
}

// reserveNumbered finds and claims the first numbered variant of dest that is
// neither claimed by this run nor present on disk: base_1.ext, base_2.ext,
// and so on.
func (c *claims) reserveNumbered(dest string) string {
	dir := filepath.Dir(dest)
	base := filepath.Base(dest)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 1; ; i++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if _, ok := c.taken[cand]; ok {
			continue
		}
		if _, err := os.Lstat(cand); err == nil {
			continue
		}
		c.taken[cand] = struct{}{}
		return cand
	}
}

// nextNumbered previews the name reserveNumbered would pick without claiming
// it, for display in ask prompts.
func (c *claims) nextNumbered(dest string) string {
	dir := filepath.Dir(dest)
	base := filepath.Base(dest)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 1; ; i++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if _, ok := c.taken[cand]; ok {
			continue
		}
		if _, err := os.Lstat(cand); err == nil {
			continue
		}
		return cand
	}
}
