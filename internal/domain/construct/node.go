// Package construct implements the in-memory construction tree that inventory
// resources are registered into before a stack is synthesized.
package construct

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyID     = errors.New("construct id cannot be empty")
	ErrDuplicateID = errors.New("there is already a construct with this id in scope")
	ErrInvalidID   = errors.New("construct id cannot contain the path separator")
)

// PathSeparator separates construct ids in a path.
const PathSeparator = "/"

// Construct is anything that owns a node of the tree.
type Construct interface {
	Node() *Node
}

// Node is a vertex of the construction tree.
type Node struct {
	id       string
	scope    *Node
	children []*Node
	stack    *Stack
}

// NewNode registers a child node with the given id under scope.
func NewNode(scope Construct, id string) (*Node, error) {
	if scope == nil || scope.Node() == nil {
		return nil, fmt.Errorf("construct %q: scope is required", id)
	}
	parent := scope.Node()
	if err := validateID(id); err != nil {
		return nil, err
	}
	if parent.FindChild(id) != nil {
		return nil, fmt.Errorf("%w: %q under %q", ErrDuplicateID, id, parent.Path())
	}

	node := &Node{id: id, scope: parent}
	parent.children = append(parent.children, node)
	return node, nil
}

// Node implements Construct so a bare node can be used as a scope.
func (n *Node) Node() *Node {
	return n
}

// ID returns the node id.
func (n *Node) ID() string {
	return n.id
}

// Scope returns the parent node, or nil at the root.
func (n *Node) Scope() *Node {
	return n.scope
}

// Children returns the direct children in registration order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// FindChild returns the direct child with the given id, or nil.
func (n *Node) FindChild(id string) *Node {
	for _, c := range n.children {
		if c.id == id {
			return c
		}
	}
	return nil
}

// TryRemoveChild removes the direct child with the given id together with every
// resource registered below it. It reports whether a child was removed.
func (n *Node) TryRemoveChild(id string) bool {
	for i, c := range n.children {
		if c.id != id {
			continue
		}
		n.children = append(n.children[:i:i], n.children[i+1:]...)
		if stack := n.Stack(); stack != nil {
			stack.removeResourcesUnder(c)
		}
		return true
	}
	return false
}

// isWithin reports whether n is ancestor or lies below it.
func (n *Node) isWithin(ancestor *Node) bool {
	for cur := n; cur != nil; cur = cur.scope {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Scopes returns the nodes from the root down to n, inclusive.
func (n *Node) Scopes() []*Node {
	var scopes []*Node
	for cur := n; cur != nil; cur = cur.scope {
		scopes = append([]*Node{cur}, scopes...)
	}
	return scopes
}

// Path returns the ids from the root to n joined by PathSeparator.
func (n *Node) Path() string {
	scopes := n.Scopes()
	ids := make([]string, len(scopes))
	for i, s := range scopes {
		ids[i] = s.id
	}
	return strings.Join(ids, PathSeparator)
}

// Stack returns the stack the node belongs to.
func (n *Node) Stack() *Stack {
	root := n
	for root.scope != nil {
		root = root.scope
	}
	return root.stack
}

func validateID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if strings.Contains(id, PathSeparator) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
