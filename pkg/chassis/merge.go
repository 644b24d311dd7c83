package chassis

// Merge combines two wired buses into a new one, leaving both inputs
// untouched. On a message type registered in both, b wins. The merged
// middleware chain is a's middlewares followed by b's, each side's internal
// order preserved.
func Merge(a, b *Bus) *Bus {
	merged := NewBus()

	for _, src := range []*Bus{a, b} {
		for _, kind := range []Kind{KindCommand, KindRead, KindWatch} {
			dst := merged.roleMap(kind)
			for t, e := range src.roleMap(kind) {
				dst[t] = e
			}
		}
	}

	merged.middleware = make([]Middleware, 0, len(a.middleware)+len(b.middleware))
	merged.middleware = append(merged.middleware, a.middleware...)
	merged.middleware = append(merged.middleware, b.middleware...)
	return merged
}
