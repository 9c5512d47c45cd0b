// Package reconcile matches a previous set of keyed entities against a new
// one.
package reconcile

// Plan splits the new items into those that need a new entity (Enter) and
// those that already have one (Update), and lists the keys of entities that
// no longer have an item (Exit). The three sets are disjoint.
type Plan[K comparable, T any] struct {
	Enter  []T
	Update []T
	Exit   []K
}

// Diff computes the plan that turns prev into next. Enter and Update keep
// the order of next; Exit keeps the order of prev. When next holds several
// items with the same key only the first one is used.
func Diff[K comparable, T any](prev []K, next []T, key func(T) K) Plan[K, T] {
	had := make(map[K]struct{}, len(prev))
	for _, k := range prev {
		had[k] = struct{}{}
	}

	var p Plan[K, T]
	seen := make(map[K]struct{}, len(next))
	for _, item := range next {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := had[k]; ok {
			p.Update = append(p.Update, item)
		} else {
			p.Enter = append(p.Enter, item)
		}
	}

	for _, k := range prev {
		if _, ok := seen[k]; !ok {
			p.Exit = append(p.Exit, k)
		}
	}
	return p
}

// Empty reports whether the plan changes nothing but existing entities.
func (p Plan[K, T]) Empty() bool {
	return len(p.Enter) == 0 && len(p.Exit) == 0
}
