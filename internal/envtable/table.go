package envtable

import "github.com/tidwall/btree"

// Table is a kind-keyed ordered map from a fully-qualified name's canonical
// key string (name.TypeName.Key()) to an entry value. A zero Table is ready
// to use, matching github.com/tidwall/btree's own zero-value-usable Map,
// the same approach the teacher takes for its own qualified-name-keyed
// storage (internal/dep_graph/dep_graph_v2.go's Decls/DeclDeps/
// DeclNamespace fields).
type Table[V any] struct {
	m btree.Map[string, V]
}

// Get looks up a value by key.
func (t *Table[V]) Get(key string) (V, bool) {
	return t.m.Get(key)
}

// Set stores a value under key.
func (t *Table[V]) Set(key string, v V) {
	t.m.Set(key, v)
}

// Has reports whether key is present.
func (t *Table[V]) Has(key string) bool {
	_, ok := t.m.Get(key)
	return ok
}

// Len returns the number of entries.
func (t *Table[V]) Len() int {
	return t.m.Len()
}

// Keys returns all keys in ascending order.
func (t *Table[V]) Keys() []string {
	keys := make([]string, 0, t.m.Len())
	iter := t.m.Iter()
	for ok := iter.First(); ok; ok = iter.Next() {
		keys = append(keys, iter.Key())
	}
	return keys
}

// Each calls fn for every entry in ascending key order.
func (t *Table[V]) Each(fn func(key string, v V)) {
	iter := t.m.Iter()
	for ok := iter.First(); ok; ok = iter.Next() {
		fn(iter.Key(), iter.Value())
	}
}

// Copy returns a shallow duplicate of the table: a fresh underlying map
// with the same key/value pairs (the values themselves are shared, per
// the environment's own shallow "duplicating the environment" copy
// semantics, §4.7).
func (t *Table[V]) Copy() Table[V] {
	var out Table[V]
	t.Each(func(key string, v V) {
		out.Set(key, v)
	})
	return out
}
