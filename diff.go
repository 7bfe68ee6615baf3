package bstmap

import (
	"fmt"
	"reflect"
)

// DiffIter invokes the given callback for every entry that differs between
// m and oldMap, in ascending key order. Callback invocation with
// added==removed==false signifies entries whose values have changed. The
// iteration stops if the callback returns keepGoing==false or an error.
// Values are compared with equal, or reflect.DeepEqual if equal is nil.
// A nil oldMap is treated as empty.
func (m *OrderedMap[K, V]) DiffIter(
	oldMap *OrderedMap[K, V],
	equal func(a, b V) bool,
	f func(added, removed bool, key K, addedValue, removedValue V) (keepGoing bool, err error),
) error {
	if equal == nil {
		equal = func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}
	var olds []entry[K, V]
	if oldMap != nil {
		olds = oldMap.toSlice()
	}
	news := m.toSlice()
	var zero V
	call := func(added, removed bool, key K, addedValue, removedValue V) (bool, error) {
		keepGoing, err := f(added, removed, key, addedValue, removedValue)
		if err != nil {
			return false, fmt.Errorf("callback: %w", err)
		}
		return keepGoing, nil
	}
	i, j := 0, 0
	for i < len(olds) || j < len(news) {
		var keepGoing bool
		var err error
		switch {
		case j == len(news):
			keepGoing, err = call(false, true, olds[i].Key, zero, olds[i].Value)
			i++
		case i == len(olds):
			keepGoing, err = call(true, false, news[j].Key, news[j].Value, zero)
			j++
		default:
			o, n := olds[i], news[j]
			cmp := m.keyOrder(o.Key, n.Key)
			if m.debug {
				fmt.Printf("  oldKey=%v.compare(newKey=%v): %d\n", o.Key, n.Key, cmp)
			}
			switch {
			case cmp < 0:
				keepGoing, err = call(false, true, o.Key, zero, o.Value)
				i++
			case cmp > 0:
				keepGoing, err = call(true, false, n.Key, n.Value, zero)
				j++
			default:
				keepGoing = true
				if !equal(o.Value, n.Value) {
					keepGoing, err = call(false, false, n.Key, n.Value, o.Value)
				}
				i++
				j++
			}
		}
		if err != nil {
			return err
		}
		if !keepGoing {
			return nil
		}
	}
	return nil
}
