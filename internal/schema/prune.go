package schema

// KeySet is a set of record keys to retain.
type KeySet map[string]struct{}

// NewKeySet builds a KeySet from keys.
func NewKeySet(keys ...string) KeySet {
	ks := make(KeySet, len(keys))
	for _, k := range keys {
		ks[k] = struct{}{}
	}
	return ks
}

// Has reports whether key is retained.
func (ks KeySet) Has(key string) bool {
	_, ok := ks[key]
	return ok
}

// Prune returns a new map holding only the entries of record whose keys are
// in keys. Values are shared with record, not copied, and keys absent from
// record are not filled in. record is never modified.
func Prune(record map[string]interface{}, keys KeySet) map[string]interface{} {
	out := make(map[string]interface{}, len(keys))
	for k, v := range record {
		if keys.Has(k) {
			out[k] = v
		}
	}
	return out
}

// PruneToSchema prunes record to the schema's source keys plus additional keys.
func PruneToSchema(record map[string]interface{}, s *ObjectSchema, additional ...string) map[string]interface{} {
	return Prune(record, s.KeySet(additional...))
}
