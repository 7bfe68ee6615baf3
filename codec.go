package bstmap

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/minio/blake2b-simd"
)

func appendLength(buf []byte, n int) []byte {
	var tmpbuf [binary.MaxVarintLen64]byte
	l := binary.PutUvarint(tmpbuf[:], uint64(n))
	return append(buf, tmpbuf[:l]...)
}

func appendMarshaled(buf []byte, i interface{}, marshal func(interface{}) ([]byte, error)) ([]byte, error) {
	body, err := marshal(i)
	if err != nil {
		return nil, err
	}
	buf = appendLength(buf, len(body))
	return append(buf, body...), nil
}

// encode serializes the entries in key order, each key and value
// length-prefixed, after the entry count.
func (m *OrderedMap[K, V]) encode() ([]byte, error) {
	buf := appendLength(nil, m.size)
	var err error
	m.walk(func(x *node[K, V]) bool {
		buf, err = appendMarshaled(buf, x.key, m.marshal)
		if err != nil {
			err = fmt.Errorf("marshal key %v: %w", x.key, err)
			return false
		}
		buf, err = appendMarshaled(buf, x.value, m.marshal)
		if err != nil {
			err = fmt.Errorf("marshal value for %v: %w", x.key, err)
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Fingerprint returns a digest of the map's entries. Maps with equal
// entries have equal fingerprints, whatever order the entries were inserted
// in and whatever shape their trees have.
func (m *OrderedMap[K, V]) Fingerprint() (string, error) {
	encoded, err := m.encode()
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	hashBytes := blake2b.Sum256(encoded)
	return base64.RawURLEncoding.EncodeToString(hashBytes[:]), nil
}
