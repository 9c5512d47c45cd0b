package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type item struct {
	key string
	val int
}

func keyOf(i item) string { return i.key }

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		prev []string
		next []item
		want Plan[string, item]
	}{
		{
			name: "first frame enters everything",
			prev: nil,
			next: []item{{"a", 1}, {"b", 2}},
			want: Plan[string, item]{Enter: []item{{"a", 1}, {"b", 2}}},
		},
		{
			name: "same keys update",
			prev: []string{"a", "b"},
			next: []item{{"b", 3}, {"a", 4}},
			want: Plan[string, item]{Update: []item{{"b", 3}, {"a", 4}}},
		},
		{
			name: "mixed",
			prev: []string{"a", "b", "c"},
			next: []item{{"c", 1}, {"d", 2}, {"a", 3}},
			want: Plan[string, item]{
				Enter:  []item{{"d", 2}},
				Update: []item{{"c", 1}, {"a", 3}},
				Exit:   []string{"b"},
			},
		},
		{
			name: "everything exits",
			prev: []string{"x", "y"},
			next: nil,
			want: Plan[string, item]{Exit: []string{"x", "y"}},
		},
		{
			name: "duplicate keys use first item",
			prev: []string{"a"},
			next: []item{{"a", 1}, {"a", 2}, {"b", 3}, {"b", 4}},
			want: Plan[string, item]{
				Enter:  []item{{"b", 3}},
				Update: []item{{"a", 1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.prev, tt.next, keyOf)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(item{})); diff != "" {
				t.Errorf("plan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffDisjoint(t *testing.T) {
	prev := []string{"a", "b", "c", "d"}
	next := []item{{"b", 0}, {"d", 0}, {"e", 0}, {"f", 0}}
	p := Diff(prev, next, keyOf)

	seen := map[string]int{}
	for _, i := range p.Enter {
		seen[i.key]++
	}
	for _, i := range p.Update {
		seen[i.key]++
	}
	for _, k := range p.Exit {
		seen[k]++
	}
	for k, n := range seen {
		if n != 1 {
			t.Errorf("key %s appears in %d sets", k, n)
		}
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 keys across the plan, got %d", len(seen))
	}
}

func TestPlanEmpty(t *testing.T) {
	if !Diff([]string{"a"}, []item{{"a", 1}}, keyOf).Empty() {
		t.Error("update-only plan should be empty")
	}
	if Diff(nil, []item{{"a", 1}}, keyOf).Empty() {
		t.Error("plan with an enter should not be empty")
	}
}
