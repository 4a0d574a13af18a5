package dsl

import (
	"strings"
	"sync"

	tys "github.com/tyslab/tys"
	"github.com/tyslab/tys/internal/jsonhash"
)

// memoKey identifies one cached outcome. Option bits are part of the key
// because abort-early changes which issues a failing parse records.
type memoKey struct {
	hash     uint64
	failFast bool
	async    bool
}

type memoEntry struct {
	value  any
	valid  bool
	issues tys.Issues
	// prefix is the node path at record time, so replayed issue paths can be
	// re-rooted at the current position.
	prefix string
}

// MemoSchema caches the wrapped schema's outcome per structurally equal
// input. It is a pure optimization: outcomes with and without it are
// identical for side-effect-free schemas.
type MemoSchema struct {
	wrapper
	cache sync.Map
}

// Memoize caches outcomes of inner keyed by a structural hash of the input.
// Unhashable or absent inputs bypass the cache.
func Memoize(inner tys.Schema) *MemoSchema {
	return &MemoSchema{wrapper: wrapper{base{kind: tys.KindMemo}, inner}}
}

func (s *MemoSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	v := pc.Data()
	h, hashable := jsonhash.Sum(v)
	if !hashable || tys.IsMissing(v) {
		return s.inner.ParseIn(pc.Sibling(s.inner))
	}
	key := memoKey{hash: h, failFast: pc.FailFast(), async: pc.Async()}

	if e, ok := s.cache.Load(key); ok {
		entry := e.(*memoEntry)
		replayIssues(pc, entry)
		if !entry.valid {
			return pc.Abort()
		}
		return tys.Valid(entry.value)
	}

	branch := pc.Branch(s.inner, v)
	res := s.inner.ParseIn(branch)
	entry := &memoEntry{
		value:  res.Value,
		valid:  res.Status == tys.StatusValid && branch.IsValid(),
		issues: branch.Issues(),
		prefix: pc.PathString(),
	}
	s.cache.Store(key, entry)
	replayIssues(pc, entry)
	if !entry.valid {
		return pc.Abort()
	}
	return tys.Valid(entry.value)
}

// replayIssues merges cached issues into pc, re-rooting their paths from the
// recorded prefix to the current node position.
func replayIssues(pc *tys.ParseContext, e *memoEntry) {
	if len(e.issues) == 0 {
		return
	}
	cur := pc.PathString()
	for _, iss := range e.issues {
		if e.prefix != cur {
			iss.Path = rerootPath(iss.Path, e.prefix, cur)
		}
		pc.AddIssue(iss)
	}
}

func rerootPath(p, oldPrefix, newPrefix string) string {
	if oldPrefix == "/" {
		if newPrefix == "/" {
			return p
		}
		if p == "/" {
			return newPrefix
		}
		return newPrefix + p
	}
	if rest, ok := strings.CutPrefix(p, oldPrefix); ok {
		if newPrefix == "/" {
			if rest == "" {
				return "/"
			}
			return rest
		}
		return newPrefix + rest
	}
	return p
}
