package bstmap

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// OrderedMap is a map from unique keys to values, kept in key order by an
// unbalanced binary search tree.
type OrderedMap[K, V any] struct {
	root     *node[K, V]
	size     int
	keyOrder func(a, b K) int
	marshal  func(interface{}) ([]byte, error)
	debug    bool
}

// A node exclusively owns its children; no node is reachable from two parents.
type node[K, V any] struct {
	key   K
	value V
	left  *node[K, V]
	right *node[K, V]
}

// find reports where a node with the given key is, or would be attached,
// in the subtree hanging off pos. *slot is non-nil if the key is present.
func (m *OrderedMap[K, V]) find(pos **node[K, V], key K) (slot **node[K, V]) {
	slot = pos
	for x := *slot; x != nil; x = *slot {
		cmp := m.keyOrder(key, x.key)
		if cmp == 0 {
			break
		}
		if cmp < 0 {
			slot = &x.left
		} else {
			slot = &x.right
		}
	}
	return slot
}

// lookup returns the node holding key, or nil.
func (m *OrderedMap[K, V]) lookup(key K) *node[K, V] {
	return *m.find(&m.root, key)
}

// attach hangs a new node on the empty slot and counts it.
func (m *OrderedMap[K, V]) attach(slot **node[K, V], key K, value V) *node[K, V] {
	if *slot != nil {
		panic("bstmap: attaching to an occupied slot")
	}
	x := &node[K, V]{key: key, value: value}
	*slot = x
	m.size++
	if m.debug {
		fmt.Printf("inserted %v (size=%d)\n", key, m.size)
	}
	return x
}

// erase removes key from the subtree hanging off pos, rewriting the link
// that points at the removed node. The size counter is only touched when a
// node with at most one child is spliced out.
func (m *OrderedMap[K, V]) erase(pos **node[K, V], key K) bool {
	slot := m.find(pos, key)
	x := *slot
	if x == nil {
		return false
	}
	switch {
	case x.left == nil:
		*slot = x.right
	case x.right == nil:
		*slot = x.left
	default:
		succ := x.right.minNode()
		if succ.left != nil {
			panic(fmt.Sprintf("bstmap: successor %v of %v has a left child", succ.key, x.key))
		}
		if m.debug {
			fmt.Printf("  replacing %v with successor %v\n", x.key, succ.key)
		}
		x.key, x.value = succ.key, succ.value
		// The successor lands in one of the cases above, which decrements.
		return m.erase(&x.right, succ.key)
	}
	x.left, x.right = nil, nil
	m.size--
	if m.debug {
		fmt.Printf("  spliced out %v (size=%d)\n", key, m.size)
	}
	return true
}

// minNode returns the node in x's subtree with the smallest key.
// x must not be nil.
func (x *node[K, V]) minNode() *node[K, V] {
	for x.left != nil {
		x = x.left
	}
	return x
}

// maxNode returns the node in x's subtree with the largest key.
// x must not be nil.
func (x *node[K, V]) maxNode() *node[K, V] {
	for x.right != nil {
		x = x.right
	}
	return x
}

func (x *node[K, V]) clone() *node[K, V] {
	if x == nil {
		return nil
	}
	return &node[K, V]{
		key:   x.key,
		value: x.value,
		left:  x.left.clone(),
		right: x.right.clone(),
	}
}

// walk visits every node in ascending key order until f returns false.
// It keeps its own stack so that a degenerate tree does not recurse
// once per element.
func (m *OrderedMap[K, V]) walk(f func(*node[K, V]) bool) {
	var stack []*node[K, V]
	x := m.root
	for x != nil || len(stack) > 0 {
		for ; x != nil; x = x.left {
			stack = append(stack, x)
		}
		x = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !f(x) {
			return
		}
		x = x.right
	}
}

// entry represents a key and value in the tree.
type entry[K, V any] struct {
	Key   K
	Value V
}

// toSlice returns the tree's entries in key order.
func (m *OrderedMap[K, V]) toSlice() []entry[K, V] {
	array := make([]entry[K, V], 0, m.size)
	m.walk(func(x *node[K, V]) bool {
		array = append(array, entry[K, V]{x.key, x.value})
		return true
	})
	return array
}

type levelEntry[K, V any] struct {
	node  *node[K, V]
	level int
}

func (m *OrderedMap[K, V]) height() int {
	if m.root == nil {
		return 0
	}
	deepest := 0
	stack := []levelEntry[K, V]{{m.root, 1}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.level > deepest {
			deepest = e.level
		}
		if e.node.left != nil {
			stack = append(stack, levelEntry[K, V]{e.node.left, e.level + 1})
		}
		if e.node.right != nil {
			stack = append(stack, levelEntry[K, V]{e.node.right, e.level + 1})
		}
	}
	return deepest
}

// checkTree verifies that the tree is tree-shaped, that its keys are in
// strictly ascending order, and that the size counter matches.
func (m *OrderedMap[K, V]) checkTree() error {
	seen := map[*node[K, V]]struct{}{}
	stack := []*node[K, V]{}
	if m.root != nil {
		stack = append(stack, m.root)
	}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, dup := seen[x]; dup {
			return fmt.Errorf("node with key %v is reachable more than once", x.key)
		}
		seen[x] = struct{}{}
		if x.left != nil {
			stack = append(stack, x.left)
		}
		if x.right != nil {
			stack = append(stack, x.right)
		}
	}
	if len(seen) != m.size {
		return fmt.Errorf("tree has %d nodes but size is %d", len(seen), m.size)
	}
	var err error
	var last *node[K, V]
	m.walk(func(x *node[K, V]) bool {
		if last != nil && m.keyOrder(last.key, x.key) >= 0 {
			err = fmt.Errorf("keys out of order: %v is not less than %v", last.key, x.key)
			return false
		}
		last = x
		return true
	})
	return err
}

func (x *node[K, V]) label() string {
	return fmt.Sprintf("%v: %v", x.key, x.value)
}

func (x *node[K, V]) dump(tree treeprint.Tree) {
	for _, child := range []struct {
		side string
		node *node[K, V]
	}{{"L", x.left}, {"R", x.right}} {
		if child.node == nil {
			continue
		}
		label := child.side + " " + child.node.label()
		if child.node.left == nil && child.node.right == nil {
			tree.AddNode(label)
			continue
		}
		child.node.dump(tree.AddBranch(label))
	}
}

func (m *OrderedMap[K, V]) dump() {
	fmt.Print(m.Dump())
}
