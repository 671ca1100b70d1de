package document

import "errors"

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// SkipChildren is a sentinel a WalkFunc may return to skip the current
// node's children while continuing the walk elsewhere.
var SkipChildren = errors.New("skip children") //nolint:errname,staticcheck // sentinel, not a failure

// Walk performs a pre-order traversal of the tree rooted at root.
// If fn returns SkipChildren the walk continues past the node's
// subtree; any other non-nil error stops the walk and is returned.
func Walk(root *Node, fn WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := fn(root); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}

	for _, child := range root.Children {
		if err := Walk(child, fn); err != nil {
			return err
		}
	}

	return nil
}

// Collect returns all nodes of the given kind, in source order.
func Collect(root *Node, kind NodeKind) []*Node {
	var result []*Node

	//nolint:errcheck // the callback never fails
	Walk(root, func(n *Node) error {
		if n.Kind == kind {
			result = append(result, n)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck // errStopWalk is expected and intentionally ignored
	Walk(root, func(n *Node) error {
		if predicate(n) {
			found = n
			return errStopWalk
		}
		return nil
	})

	return found
}

// errStopWalk is a sentinel used to stop walking early.
var errStopWalk = errors.New("stop walk")
