package pipe

// Flatten collapses redundant nesting. A mapping flattens each value keeping
// its keys; a sequence whose sole element is itself a sequence collapses into
// that inner sequence, recursively; a sequence with more than one element
// flattens each element independently, never merging siblings. Sets, scalars
// and empty sequences pass through unchanged. Flatten is idempotent.
func Flatten(v Value) Value {
	switch v.kind {
	case KindMap:
		fields := make(map[string]Value, len(v.keys))
		for _, k := range v.keys {
			fields[k] = Flatten(v.fields[k])
		}
		return Value{kind: KindMap, keys: v.keys, fields: fields}
	case KindSeq:
		if len(v.seq) == 0 {
			return v
		}
		if len(v.seq) == 1 && v.seq[0].kind == KindSeq {
			return Flatten(v.seq[0])
		}
		seq := make([]Value, len(v.seq))
		for i, e := range v.seq {
			seq[i] = Flatten(e)
		}
		return Value{kind: KindSeq, seq: seq}
	}
	return v
}
