package cache

import (
	"slices"
	"testing"
)

// model is a slow reference LRU: keys in MRU→LRU order plus a value map.
type model struct {
	capacity int
	order    []byte
	vals     map[byte]uint16
}

func (m *model) touch(k byte) {
	if i := slices.Index(m.order, k); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	m.order = slices.Insert(m.order, 0, k)
}

func (m *model) get(k byte) (uint16, bool) {
	v, ok := m.vals[k]
	if ok {
		m.touch(k)
	}
	return v, ok
}

func (m *model) put(k byte, v uint16) {
	m.vals[k] = v
	m.touch(k)
	if len(m.order) > m.capacity {
		lru := m.order[len(m.order)-1]
		m.order = m.order[:len(m.order)-1]
		delete(m.vals, lru)
	}
}

// Fuzz arbitrary Get/Put sequences against the reference model.
// Each op consumes three bytes: opcode, key, value. Keys are folded into a
// small space so hits, updates and evictions all happen often.
// After every op the chain must match the model exactly and all structural
// invariants must hold.
func FuzzCache_MatchesModel(f *testing.F) {
	f.Add(uint8(1), []byte{})
	f.Add(uint8(2), []byte{1, 1, 1, 1, 2, 2, 1, 3, 3, 0, 1, 0})
	f.Add(uint8(3), []byte{1, 1, 'a', 1, 2, 'b', 1, 3, 'c', 0, 1, 0, 1, 4, 'd'})
	f.Add(uint8(8), []byte("put get put put get get put get evict everything"))

	f.Fuzz(func(t *testing.T, capacity uint8, ops []byte) {
		capN := int(capacity%16) + 1
		c := New[byte, uint16](Options[byte, uint16]{Capacity: capN})
		m := &model{capacity: capN, vals: map[byte]uint16{}}

		for i := 0; i+2 < len(ops); i += 3 {
			op, k, v := ops[i], ops[i+1]%32, uint16(ops[i+2])<<8|uint16(i)
			if op%2 == 0 {
				got, ok := c.Get(k)
				want, wantOK := m.get(k)
				if ok != wantOK || got != want {
					t.Fatalf("op %d Get(%d): got (%d,%v), want (%d,%v)", i/3, k, got, ok, want, wantOK)
				}
			} else {
				c.Put(k, v)
				m.put(k, v)
				if got, ok := c.Get(k); !ok || got != v {
					t.Fatalf("op %d: Put(%d,%d) not readable: (%d,%v)", i/3, k, v, got, ok)
				}
				m.get(k)
			}

			if keys := chain(t, c); !slices.Equal(keys, m.order) {
				t.Fatalf("op %d: chain %v, want %v", i/3, keys, m.order)
			}
		}
	})
}
