package ecs

import "github.com/milk9111/posebridge/ecs/component"

// ForEach calls fn for every live entity with a component of kind a.
func ForEach[A any](w *World, a component.ComponentKind[A], fn func(Entity, *A)) {
	if w == nil || fn == nil {
		return
	}
	sa := storeFor(w, a, false)
	if sa == nil {
		return
	}
	// fn may add or remove components; iterate over a snapshot.
	ents := append([]Entity(nil), sa.entities()...)
	for _, e := range ents {
		if !w.entities.isAlive(e) {
			continue
		}
		if va, ok := sa.get(e); ok {
			fn(e, va)
		}
	}
}

// ForEach2 calls fn for every live entity that has both kinds.
func ForEach2[A, B any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	sa, sb := storeFor(w, a, false), storeFor(w, b, false)
	if sa == nil || sb == nil {
		return
	}
	for _, e := range w.Query(a, b) {
		va, _ := sa.get(e)
		vb, _ := sb.get(e)
		fn(e, va, vb)
	}
}

// ForEach3 calls fn for every live entity that has all three kinds.
func ForEach3[A, B, C any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	sa, sb, sc := storeFor(w, a, false), storeFor(w, b, false), storeFor(w, c, false)
	if sa == nil || sb == nil || sc == nil {
		return
	}
	for _, e := range w.Query(a, b, c) {
		va, _ := sa.get(e)
		vb, _ := sb.get(e)
		vc, _ := sc.get(e)
		fn(e, va, vb, vc)
	}
}
