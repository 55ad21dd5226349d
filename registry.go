// registry.go: the hierarchical logger registry (§3 "Logger", §4.2, §5).
//
// Grounded on the spec's explicit §5 recommendation ("an atomic pointer to
// an immutable tree, replaced copy-on-write on configuration change") and
// the teacher's general preference for atomics over locks on the read
// path (AtomicLevel in level.go). The teacher has no equivalent
// hierarchical registry of its own (it is a single-logger-plus-children-
// via-With library), so this tree structure is built fresh in the
// teacher's lock-free idiom rather than adapted from a teacher file.
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// tree is an immutable snapshot of the registry: name -> *Logger. A
// configuration change builds a new tree and swaps the registry's atomic
// pointer to it; readers holding an old *tree see a consistent, if
// slightly stale, view (§5 "no torn reads").
type tree struct {
	byName map[string]*Logger
}

// Registry is the process-wide (or test-local) name -> *Logger mapping.
// The zero value is not usable; use NewRegistry.
type Registry struct {
	snapshot atomic.Pointer[tree]
	mu       sync.Mutex // serializes writers only; readers never block
	nextID   uint64
}

// NewRegistry creates a registry with a root logger ("") carrying
// threshold. Per §3: "the root always has an explicit threshold".
func NewRegistry(rootThreshold Severity) *Registry {
	r := &Registry{}
	root := &Logger{
		id:        1,
		registry:  r,
		name:      "",
		explicit:  NewAtomicSeverity(rootThreshold),
		hasExplicit: true,
	}
	root.effective.Store(int32(rootThreshold))
	r.nextID = 1
	r.snapshot.Store(&tree{byName: map[string]*Logger{"": root}})
	return r
}

func (r *Registry) current() *tree { return r.snapshot.Load() }

// Root returns the registry's root logger.
func (r *Registry) Root() *Logger { return r.current().byName[""] }

// GetLogger returns the logger registered under name, creating it (and any
// missing ancestors) if necessary, inheriting the nearest ancestor's
// effective threshold (§3 "Threshold resolution").
func (r *Registry) GetLogger(name string) *Logger {
	if l, ok := r.current().byName[name]; ok {
		return l
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.current()
	if l, ok := cur.byName[name]; ok {
		return l
	}

	newByName := make(map[string]*Logger, len(cur.byName)+1)
	for k, v := range cur.byName {
		newByName[k] = v
	}

	parentName, hasParent := parentOf(name)
	var parent *Logger
	if hasParent {
		if p, ok := newByName[parentName]; ok {
			parent = p
		} else {
			parent = r.materializeAncestors(newByName, parentName)
		}
	} else {
		parent = newByName[""]
	}

	r.nextID++
	l := &Logger{
		id:       r.nextID,
		registry: r,
		name:     name,
		parent:   parent,
		sinks:    nil,
	}
	l.effective.Store(int32(parent.EffectiveThreshold()))
	newByName[name] = l

	r.snapshot.Store(&tree{byName: newByName})
	return l
}

// materializeAncestors fills in any missing ancestors of name into
// newByName (called with r.mu held) and returns the immediate parent.
func (r *Registry) materializeAncestors(newByName map[string]*Logger, name string) *Logger {
	if l, ok := newByName[name]; ok {
		return l
	}
	parentName, hasParent := parentOf(name)
	var parent *Logger
	if hasParent {
		parent = r.materializeAncestors(newByName, parentName)
	} else {
		parent = newByName[""]
	}
	r.nextID++
	l := &Logger{id: r.nextID, registry: r, name: name, parent: parent}
	l.effective.Store(int32(parent.EffectiveThreshold()))
	newByName[name] = l
	return l
}

func parentOf(name string) (string, bool) {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return "", false
	}
	return name[:idx], true
}

// SetThreshold sets an explicit threshold on the named logger (creating it
// if necessary) and recomputes the effective threshold of every
// descendant that inherits rather than overrides (§6 "set_threshold").
func (r *Registry) SetThreshold(name string, sev Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.current()
	newByName := make(map[string]*Logger, len(cur.byName))
	for k, v := range cur.byName {
		newByName[k] = v.shallowClone()
	}

	target, ok := newByName[name]
	if !ok {
		target = r.materializeAncestors(newByName, name)
	}
	target.explicit = NewAtomicSeverity(sev)
	target.hasExplicit = true
	target.effective.Store(int32(sev))

	// Repair parent pointers to point at the cloned nodes, then
	// recompute every inherited effective threshold in name order so a
	// parent is always resolved before its children.
	names := make([]string, 0, len(newByName))
	for k := range newByName {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		n := newByName[k]
		if n.parent != nil {
			if p, ok := newByName[n.parent.name]; ok {
				n.parent = p
			}
		}
		if !n.hasExplicit && n.parent != nil {
			n.effective.Store(int32(n.parent.EffectiveThreshold()))
		}
	}

	r.snapshot.Store(&tree{byName: newByName})
}

// byID finds the logger with the given stable id, used by a worker to
// resolve a frame's logger_id back to a *Logger for decorator context
// (§4.8 "logger" decorator). Linear in the number of registered loggers,
// which is expected to be small and effectively static after startup.
func (r *Registry) byID(id uint64) *Logger {
	for _, l := range r.current().byName {
		if l.id == id {
			return l
		}
	}
	return nil
}

// ListLoggers returns every registered logger name, sorted (§6
// "list_loggers").
func (r *Registry) ListLoggers() []string {
	cur := r.current()
	names := make([]string, 0, len(cur.byName))
	for k := range cur.byName {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
