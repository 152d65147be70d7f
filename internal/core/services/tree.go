package services

import (
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

// RangeTree builds the table of contents below a manifest or range.
//
// A manifest's children are its top-level structures. A range's children
// are its items: nested ranges are expanded, canvases (plain or wrapped in
// specific resources) become leaves. Ranges are expanded at most once; a
// range reached again is returned as a node marked Revisited without
// children, so cyclic structures terminate. Returns nil if ref does not
// resolve to a manifest or range.
func (v *Vault) RangeTree(ref domain.Reference) *driving.RangeNode {
	state := v.State()
	root := resolve(state, ref, driving.GetOptions{})
	if root == nil {
		return nil
	}

	visited := make(map[string]bool)
	switch root.Type {
	case domain.TypeManifest:
		visited[root.ID] = true
		node := &driving.RangeNode{Ref: root.Ref(), Label: root.Label}
		structures, _ := root.RefList("structures")
		for _, child := range structures {
			node.Children = append(node.Children, rangeNode(state, child, visited))
		}
		return node
	case domain.TypeRange:
		return rangeNode(state, root.Ref(), visited)
	default:
		return nil
	}
}

func rangeNode(state *domain.State, ref domain.Reference, visited map[string]bool) *driving.RangeNode {
	target := ref.Unwrap()
	entity := resolve(state, target, driving.GetOptions{})

	node := &driving.RangeNode{Ref: target}
	if entity == nil {
		return node
	}
	node.Ref = entity.Ref()
	node.Label = entity.Label

	if entity.Type != domain.TypeRange {
		return node
	}
	if visited[entity.ID] {
		node.Revisited = true
		return node
	}
	visited[entity.ID] = true

	items, _ := entity.RefList("items")
	for _, item := range items {
		node.Children = append(node.Children, rangeNode(state, item, visited))
	}
	return node
}

// Walk visits node and its descendants depth-first, passing the depth.
// Returning false from fn skips the node's children.
func Walk(node *driving.RangeNode, fn func(node *driving.RangeNode, depth int) bool) {
	walk(node, 0, fn)
}

func walk(node *driving.RangeNode, depth int, fn func(*driving.RangeNode, int) bool) {
	if node == nil || !fn(node, depth) {
		return
	}
	for _, child := range node.Children {
		walk(child, depth+1, fn)
	}
}
