package document

// Equal reports structural equality: same kinds, same scalars, same
// array elements and the same object members in the same order.
func Equal(a, b Value) bool {
	type pair struct{ a, b Value }
	work := []pair{{a, b}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		if p.a.kind != p.b.kind {
			return false
		}
		switch p.a.kind {
		case KindBool:
			if p.a.b != p.b.b {
				return false
			}
		case KindInt:
			if p.a.i != p.b.i {
				return false
			}
		case KindUint:
			if p.a.u != p.b.u {
				return false
			}
		case KindFloat:
			if p.a.f != p.b.f {
				return false
			}
		case KindString:
			if p.a.s != p.b.s {
				return false
			}
		case KindArray:
			if len(p.a.arr) != len(p.b.arr) {
				return false
			}
			for i := range p.a.arr {
				work = append(work, pair{p.a.arr[i], p.b.arr[i]})
			}
		case KindObject:
			if len(p.a.members) != len(p.b.members) {
				return false
			}
			for i, m := range p.a.members {
				if m.Key != p.b.members[i].Key {
					return false
				}
				work = append(work, pair{m.Value, p.b.members[i].Value})
			}
		}
	}
	return true
}
