// Package patch computes sparse field patches between two document snapshots.
// A patch contains only the fields whose values actually changed, so partial
// updates never clobber fields owned by another writer.
package patch

import (
	"reflect"
	"time"
)

// Patch is a sparse set of changed fields keyed by document field name.
type Patch map[string]any

// Diff compares before and after restricted to the given fields and returns
// the fields whose values differ, taken from after. Fields absent from both
// snapshots are never included.
func Diff(before, after map[string]any, fields ...string) Patch {
	p := Patch{}
	for _, field := range fields {
		bv, inBefore := before[field]
		av, inAfter := after[field]
		if !inBefore && !inAfter {
			continue
		}
		if !equal(bv, av) {
			p[field] = av
		}
	}
	return p
}

// IsEmpty reports whether the patch contains no changed fields.
func (p Patch) IsEmpty() bool {
	return len(p) == 0
}

func equal(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}
