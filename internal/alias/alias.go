// Package alias implements the memoized class/module alias normalizer of
// §4.4 — the hardest algorithm in this module: chasing a chain of
// class/module aliases to its canonical absolute name, memoizing results
// process-wide, and detecting cycles through a three-state memo (resolved /
// unresolved / pending) rather than conflating "definitively unresolved"
// with "currently being computed".
//
// Per §5, the environment is designed for single-threaded cooperative use,
// but a frozen (post-load) environment is explicitly meant to be safely
// queryable by concurrent readers. This implementation follows option (a)
// of §5: the memo is a lazily populated cache guarded by a single lock that
// covers an entire top-level normalization call (so a cycle can only ever
// be a real cycle, never an artifact of two unrelated concurrent chains
// both touching the same alias), with golang.org/x/sync/singleflight
// layered on top purely to let concurrent callers asking about the exact
// same name share one computation instead of queueing behind the lock one
// at a time.
package alias

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/escalier-lang/envcore/internal/entry"
	"github.com/escalier-lang/envcore/internal/name"
)

// EntryLookup is the subset of the environment's lookup surface the
// normalizer needs: §4.4 step 5's constant_entry(name) query. environ.
// Environment satisfies this interface structurally.
type EntryLookup interface {
	ConstantEntry(n name.TypeName) entry.Entry
}

// CyclicClassAliasDefinition is raised when the memo's Pending marker for a
// name is observed a second time within one normalization call — a cycle
// closing back on itself (§4.4 step 3, §6).
type CyclicClassAliasDefinition struct {
	Entry entry.AliasEntry
}

func (e *CyclicClassAliasDefinition) Error() string {
	return fmt.Sprintf("cyclic class/module alias definition at %s", e.Entry.Name())
}

type memoState int

const (
	memoResolved memoState = iota
	memoUnresolved
	memoPending
)

type memoValue struct {
	state    memoState
	resolved name.TypeName
}

// Normalizer holds the process-scoped memo table for one environment.
type Normalizer struct {
	lookup EntryLookup

	mu   sync.Mutex
	memo map[string]*memoValue
	sf   singleflight.Group
}

// New creates a normalizer backed by lookup.
func New(lookup EntryLookup) *Normalizer {
	return &Normalizer{lookup: lookup, memo: make(map[string]*memoValue)}
}

// NormalizeModuleName is the total wrapper: it returns n unchanged when the
// partial variant resolves to nothing. A cycle is a genuine failure, not an
// absence of a result, so it panics with the *CyclicClassAliasDefinition
// error — callers that need to handle a cycle without a panic should call
// NormalizeModuleNameQ and check its error themselves.
func (n *Normalizer) NormalizeModuleName(tn name.TypeName) name.TypeName {
	resolved, err := n.NormalizeModuleNameQ(tn)
	if err != nil {
		panic(err)
	}
	if resolved == nil {
		return tn
	}
	return *resolved
}

// NormalizeModuleNameQ is the partial variant of §4.4: it returns the
// canonical absolute class/module name denoted by tn, or nil if tn does not
// resolve to any class/module, or a *CyclicClassAliasDefinition error if a
// cycle is hit while chasing aliases.
//
// Precondition: tn.ClassOrModule() holds; violating it is a programmer
// error and panics, per the ambient error-handling design.
func (n *Normalizer) NormalizeModuleNameQ(tn name.TypeName) (*name.TypeName, error) {
	if !tn.ClassOrModule() {
		panic(fmt.Sprintf("alias: NormalizeModuleNameQ called on a non-class/module name %s", tn))
	}
	if !tn.Absolute {
		tn = tn.AbsoluteBang()
	}
	key := tn.Key()

	v, err, _ := n.sf.Do(key, func() (any, error) {
		n.mu.Lock()
		defer n.mu.Unlock()
		return n.normalizeLocked(tn)
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	result := v.(name.TypeName)
	return &result, nil
}

// normalizeLocked implements the five-step algorithm of §4.4. It must only
// be called while n.mu is held.
func (n *Normalizer) normalizeLocked(tn name.TypeName) (result any, err error) {
	if !tn.Absolute {
		tn = tn.AbsoluteBang()
	}
	key := tn.Key()

	if mv, ok := n.memo[key]; ok {
		switch mv.state {
		case memoResolved:
			return mv.resolved, nil
		case memoUnresolved:
			return nil, nil
		case memoPending:
			ent := n.lookup.ConstantEntry(tn)
			aliasEnt, ok := ent.(entry.AliasEntry)
			if !ok {
				panic(fmt.Sprintf("alias: invariant violated: %s is Pending with no alias entry present", key))
			}
			return nil, &CyclicClassAliasDefinition{Entry: aliasEnt}
		}
	}

	n.memo[key] = &memoValue{state: memoPending}
	cleared := false
	clearPending := func() {
		if !cleared {
			delete(n.memo, key)
			cleared = true
		}
	}
	// Per §9's second open question: install a scope guard that clears the
	// Pending marker on any exit other than a normal resolved/unresolved
	// memoization, including a panic propagating past this frame.
	defer func() {
		if r := recover(); r != nil {
			clearPending()
			panic(r)
		}
		if err != nil {
			clearPending()
		}
	}()

	ent := n.lookup.ConstantEntry(tn)
	switch e := ent.(type) {
	case nil:
		clearPending()
		return nil, nil
	case *entry.ClassEntry:
		n.memo[key] = &memoValue{state: memoResolved, resolved: e.FQName}
		return e.FQName, nil
	case *entry.ModuleEntry:
		n.memo[key] = &memoValue{state: memoResolved, resolved: e.FQName}
		return e.FQName, nil
	case *entry.ClassAliasEntry:
		return n.normalizeAlias(key, e.Decl.OldName)
	case *entry.ModuleAliasEntry:
		return n.normalizeAlias(key, e.Decl.OldName)
	case *entry.ConstantEntry:
		panic(fmt.Sprintf("alias: constant name %s passed where a class/module name was expected", tn))
	default:
		panic(fmt.Sprintf("alias: unexpected entry kind %T at %s", ent, key))
	}
}

func (n *Normalizer) normalizeAlias(key string, old name.TypeName) (any, error) {
	var target name.TypeName
	if old.NS.Empty() {
		target = old
	} else {
		parent := old.NS.ToTypeName()
		parentResult, err := n.normalizeLocked(parent)
		if err != nil {
			return nil, err
		}
		normalizedParent := parent
		if parentResult != nil {
			normalizedParent = parentResult.(name.TypeName)
		}
		if normalizedParent.Equal(parent) {
			target = old
		} else {
			target = name.TypeName{NS: normalizedParent.ToNamespace(), Simple: old.Simple, Kind: old.Kind, Absolute: true}
		}
	}

	result, err := n.normalizeLocked(target)
	if err != nil {
		return nil, err
	}
	if result == nil {
		n.memo[key] = &memoValue{state: memoUnresolved}
		return nil, nil
	}
	resolved := result.(name.TypeName)
	n.memo[key] = &memoValue{state: memoResolved, resolved: resolved}
	return resolved, nil
}
