package bstmap

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xlab/treeprint"
)

// ErrKeyNotFound is returned by the checked accessors when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

var defaultMarshal = json.Marshal

// Config sets the parameters of a new map.
type Config[K any] struct {
	// KeyOrder returns a negative number if a sorts before b, positive if
	// after, and 0 if they are the same key. Required.
	KeyOrder func(a, b K) int

	// Marshal is used by Fingerprint to encode keys and values; defaults to JSON.
	Marshal func(interface{}) ([]byte, error)

	// Debug prints structural changes to stdout.
	Debug bool
}

// New returns an empty map ordered by K's natural ordering.
func New[K cmp.Ordered, V any]() *OrderedMap[K, V] {
	return NewFunc[K, V](defaultOrder[K]())
}

// NewFunc returns an empty map ordered by the given comparison.
func NewFunc[K, V any](order func(a, b K) int) *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		keyOrder: order,
		marshal:  defaultMarshal,
	}
}

// NewWithConfig returns an empty map with the given configuration.
func NewWithConfig[K, V any](config Config[K]) (*OrderedMap[K, V], error) {
	if config.KeyOrder == nil {
		return nil, fmt.Errorf("no key order; set Config.KeyOrder")
	}
	m := NewFunc[K, V](config.KeyOrder)
	if config.Marshal != nil {
		m.marshal = config.Marshal
	}
	m.debug = config.Debug
	return m, nil
}

// Access returns a pointer to the value for key, first inserting the zero
// value if the key is absent. The pointer is only valid until the next
// Delete or Clear, since deletion may move entries between nodes.
func (m *OrderedMap[K, V]) Access(key K) *V {
	slot := m.find(&m.root, key)
	x := *slot
	if x == nil {
		var zero V
		x = m.attach(slot, key, zero)
	}
	return &x.value
}

// At returns the value for key, or an error wrapping ErrKeyNotFound.
func (m *OrderedMap[K, V]) At(key K) (V, error) {
	x := m.lookup(key)
	if x == nil {
		var zero V
		return zero, fmt.Errorf("key %v: %w", key, ErrKeyNotFound)
	}
	return x.value, nil
}

// AtRef returns a pointer to the value for key, or an error wrapping
// ErrKeyNotFound. It never inserts.
func (m *OrderedMap[K, V]) AtRef(key K) (*V, error) {
	x := m.lookup(key)
	if x == nil {
		return nil, fmt.Errorf("key %v: %w", key, ErrKeyNotFound)
	}
	return &x.value, nil
}

// Get returns the value for key and reports whether it exists.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	if x := m.lookup(key); x != nil {
		return x.value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether the map has an entry for key.
func (m *OrderedMap[K, V]) Contains(key K) bool {
	return m.lookup(key) != nil
}

// Insert adds the entry if the key is absent and reports whether it did.
// An existing entry is left untouched.
func (m *OrderedMap[K, V]) Insert(key K, value V) bool {
	slot := m.find(&m.root, key)
	if *slot != nil {
		return false
	}
	m.attach(slot, key, value)
	return true
}

// Set sets the value for key.
// If the entry was present, Set returns the former value and false.
// Otherwise it returns the zero value and true.
func (m *OrderedMap[K, V]) Set(key K, value V) (old V, added bool) {
	slot := m.find(&m.root, key)
	if x := *slot; x != nil {
		old, x.value = x.value, value
		return old, false
	}
	m.attach(slot, key, value)
	return old, true
}

// Delete removes the entry for key and reports whether there was one.
func (m *OrderedMap[K, V]) Delete(key K) bool {
	if m.debug {
		fmt.Printf("deleting %v...\n", key)
		defer m.dump()
	}
	return m.erase(&m.root, key)
}

// Clear removes all entries.
func (m *OrderedMap[K, V]) Clear() {
	m.root = nil
	m.size = 0
}

// Keys returns the keys in ascending order, freshly read from the tree.
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.size)
	m.walk(func(x *node[K, V]) bool {
		keys = append(keys, x.key)
		return true
	})
	return keys
}

// Values returns the values in ascending key order, so that Values()[i]
// belongs to Keys()[i] as long as the map is not modified in between.
func (m *OrderedMap[K, V]) Values() []V {
	values := make([]V, 0, m.size)
	m.walk(func(x *node[K, V]) bool {
		values = append(values, x.value)
		return true
	})
	return values
}

// IsEmpty reports whether the map has no entries.
func (m *OrderedMap[K, V]) IsEmpty() bool {
	return m.size == 0
}

// Size returns the number of entries in the map.
func (m *OrderedMap[K, V]) Size() int {
	return m.size
}

// Min returns the smallest key and true.
// If the map is empty, the second return value is false.
func (m *OrderedMap[K, V]) Min() (K, bool) {
	if m.root == nil {
		var zero K
		return zero, false
	}
	return m.root.minNode().key, true
}

// Max returns the largest key and true.
// If the map is empty, the second return value is false.
func (m *OrderedMap[K, V]) Max() (K, bool) {
	if m.root == nil {
		var zero K
		return zero, false
	}
	return m.root.maxNode().key, true
}

// Height returns the number of nodes on the longest path from the root,
// 0 for an empty map. The tree is never rebalanced, so keys inserted in
// sorted order give a height equal to the size.
func (m *OrderedMap[K, V]) Height() int {
	return m.height()
}

// Clone returns a deep copy of the map. The copy shares no nodes with m,
// so either may be modified without affecting the other.
func (m *OrderedMap[K, V]) Clone() *OrderedMap[K, V] {
	m2 := *m
	m2.root = m.root.clone()
	return &m2
}

// Move transfers the entries of m to a new map without copying them,
// leaving m empty.
func (m *OrderedMap[K, V]) Move() *OrderedMap[K, V] {
	m2 := *m
	m.root = nil
	m.size = 0
	return &m2
}

// Check verifies the tree's ordering, shape, and size bookkeeping.
func (m *OrderedMap[K, V]) Check() error {
	if err := m.checkTree(); err != nil {
		return fmt.Errorf("check: %w", err)
	}
	return nil
}

// Dump renders the shape of the tree, one node per line.
func (m *OrderedMap[K, V]) Dump() string {
	if m.root == nil {
		return treeprint.NewWithRoot("(empty)").String()
	}
	tree := treeprint.NewWithRoot(m.root.label())
	m.root.dump(tree)
	return tree.String()
}
