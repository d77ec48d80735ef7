package ast

import "github.com/leapstack-labs/ezc/pkg/core"

// Walk visits root and its descendants in pre-order, children in stored
// order. If fn returns false the children of that node are skipped.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	walk(root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		walk(c, depth+1, fn)
	}
}

// Count returns the number of nodes in the tree rooted at root.
func Count(root *Node) int {
	count := 0
	Walk(root, func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Destroy releases root and every descendant in post-order, calling visit
// (if non-nil) once per node with children before their parent. It returns
// the number of released nodes.
//
// Only a root may be destroyed; detach a subtree with RemoveChild first.
// Released nodes cannot be attached, wrapped or destroyed again.
func Destroy(root *Node, visit func(*Node)) (int, error) {
	if root == nil {
		return 0, nil
	}
	if root.released {
		return 0, core.ErrReleased
	}
	if root.parent != nil {
		return 0, core.ErrStillOwned
	}
	return release(root, visit), nil
}

func release(n *Node, visit func(*Node)) int {
	count := 0
	for _, c := range n.children {
		count += release(c, visit)
		c.parent = nil
	}
	n.children = nil
	n.released = true
	if visit != nil {
		visit(n)
	}
	return count + 1
}
