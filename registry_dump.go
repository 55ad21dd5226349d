// registry_dump.go: YAML snapshot of the logger tree (§6 "list_loggers",
// §C.19).
//
// Grounded on the teacher's config.go struct-tag style for marshaled
// shapes, using gopkg.in/yaml.v2 (the pack's YAML library) rather than
// encoding/json: a human reading `list_loggers()` output over a control
// socket or CLI wants the same indentation-as-structure format the
// hand-authored config file uses (§6).
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"sort"

	"gopkg.in/yaml.v2"
)

// LoggerSnapshot is one node in a dumped logger tree.
type LoggerSnapshot struct {
	Name      string           `yaml:"name"`
	Threshold string           `yaml:"threshold"`
	Explicit  bool             `yaml:"explicit"`
	Sinks     []string         `yaml:"sinks,omitempty"`
	Children  []LoggerSnapshot `yaml:"children,omitempty"`
}

// Dump builds a nested LoggerSnapshot tree from the registry's current
// name-keyed snapshot (§6). Names are treated as dot-separated paths, the
// same convention GetLogger uses for ancestor materialization.
func (r *Registry) Dump() LoggerSnapshot {
	names := r.ListLoggers()
	nodes := make(map[string]*LoggerSnapshot, len(names))
	for _, name := range names {
		l := r.GetLogger(name)
		nodes[name] = &LoggerSnapshot{
			Name:      name,
			Threshold: l.EffectiveThreshold().String(),
			Explicit:  l.hasExplicit,
			Sinks:     sinkNames(l.Sinks()),
		}
	}

	// Link by name first, deferring the value copy into Children until
	// the recursive build below: copying a node into its parent's
	// Children slice before its own descendants are attached would freeze
	// a childless snapshot in place (a plain single-pass walk hits this
	// for any tree deeper than one level).
	childNames := make(map[string][]string, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		parent, ok := parentOf(name)
		if !ok || nodes[parent] == nil {
			parent = ""
		}
		childNames[parent] = append(childNames[parent], name)
	}

	var build func(name string) LoggerSnapshot
	build = func(name string) LoggerSnapshot {
		n := *nodes[name]
		kids := append([]string(nil), childNames[name]...)
		sort.Strings(kids)
		for _, k := range kids {
			n.Children = append(n.Children, build(k))
		}
		return n
	}

	if nodes[""] == nil {
		return LoggerSnapshot{Name: ""}
	}
	return build("")
}

func sinkNames(sinks []Sink) []string {
	if len(sinks) == 0 {
		return nil
	}
	out := make([]string, len(sinks))
	for i, s := range sinks {
		out[i] = s.Name()
	}
	return out
}

// DumpYAML renders the registry's logger tree as YAML text, the format
// `list_loggers()` returns over the control protocol (§6).
func (r *Registry) DumpYAML() (string, error) {
	b, err := yaml.Marshal(r.Dump())
	if err != nil {
		return "", WrapIgniteError(err, ErrCodeInvalidConfig, "ignite: failed to marshal logger tree")
	}
	return string(b), nil
}
