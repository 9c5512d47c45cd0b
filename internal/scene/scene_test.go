package scene

import (
	"testing"
	"time"

	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const d = 400 * time.Millisecond

func record(country string, income, lifeExp, pop float64) dataset.Record {
	return dataset.Record{
		Country:    country,
		Continent:  dataset.Asia,
		Income:     dataset.Float(income),
		LifeExp:    dataset.Float(lifeExp),
		Population: pop,
	}
}

func newChart(t *testing.T) *chart.Chart {
	t.Helper()
	c, err := chart.New(chart.NewLayout(960, 620, chart.DefaultChrome, chart.DefaultMargins), chart.DefaultOptions(), nil)
	require.NoError(t, err)
	return c
}

func frame(year int, recs ...dataset.Record) dataset.Frame {
	return dataset.Frame{Year: dataset.Year(year), Countries: recs}
}

func byKey(states []State) map[string]State {
	m := make(map[string]State, len(states))
	for _, s := range states {
		m[s.Key] = s
	}
	return m
}

func TestEnterStartsAtBaseline(t *testing.T) {
	c := newChart(t)
	s := New(c, d)

	v := c.Frame(frame(2000, record("A", 1000, 70, 100)))
	plan := s.Apply(v, 0)
	require.Len(t, plan.Enter, 1)

	st := s.Sample(0)
	require.Len(t, st, 1)
	assert.Equal(t, c.Baseline(), st[0].Y)
	assert.InDelta(t, c.X.Map(1000), st[0].X, 1e-9)

	mid := s.Sample(d / 2)[0]
	assert.Less(t, mid.Y, c.Baseline())
	assert.Greater(t, mid.Y, c.Y.Map(70))

	end := s.Sample(d)[0]
	assert.InDelta(t, c.Y.Map(70), end.Y, 1e-9)
	assert.True(t, s.Settled(d))
	assert.False(t, s.Settled(d/2))
}

func TestUpdateKeepsIdentityAndMoves(t *testing.T) {
	c := newChart(t)
	s := New(c, d)

	s.Apply(c.Frame(frame(2000, record("A", 1000, 70, 100))), 0)
	plan := s.Apply(c.Frame(frame(2001, record("A", 2000, 72, 200))), 800*time.Millisecond)
	assert.Empty(t, plan.Enter)
	assert.Empty(t, plan.Exit)
	require.Len(t, plan.Update, 1)
	assert.Equal(t, 2001, s.Year())

	start := s.Sample(800 * time.Millisecond)[0]
	assert.InDelta(t, c.X.Map(1000), start.X, 1e-9)

	end := s.Sample(1200 * time.Millisecond)[0]
	assert.InDelta(t, c.X.Map(2000), end.X, 1e-9)
	assert.InDelta(t, c.Y.Map(72), end.Y, 1e-9)
	assert.Equal(t, 1, s.Len())
}

func TestUpdateMidTransitionStartsFromCurrentPosition(t *testing.T) {
	c := newChart(t)
	s := New(c, d)

	s.Apply(c.Frame(frame(2000, record("A", 1000, 70, 100))), 0)
	before := s.Sample(d / 2)[0]
	s.Apply(c.Frame(frame(2001, record("A", 5000, 80, 100))), d/2)
	after := s.Sample(d / 2)[0]

	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestExitAnimatesToBaselineThenRemoves(t *testing.T) {
	c := newChart(t)
	s := New(c, d)

	s.Apply(c.Frame(frame(2000, record("A", 1000, 70, 100), record("B", 3000, 60, 100))), 0)
	plan := s.Apply(c.Frame(frame(2001, record("A", 1000, 70, 100))), time.Second)
	assert.Equal(t, []string{"B"}, plan.Exit)
	assert.Equal(t, []string{"A"}, s.Keys())

	mid := byKey(s.Sample(time.Second + d/2))
	require.Contains(t, mid, "B")
	assert.True(t, mid["B"].Exiting)
	assert.Greater(t, mid["B"].Y, c.Y.Map(60))

	end := byKey(s.Sample(time.Second + d))
	assert.NotContains(t, end, "B")
	assert.Equal(t, 1, s.Len())
}

func TestExitingCircleCanReturn(t *testing.T) {
	c := newChart(t)
	s := New(c, d)

	s.Apply(c.Frame(frame(2000, record("A", 1000, 70, 100))), 0)
	s.Apply(c.Frame(frame(2001)), time.Second)
	plan := s.Apply(c.Frame(frame(2002, record("A", 1000, 70, 100))), time.Second+d/2)

	assert.Empty(t, plan.Enter)
	require.Len(t, plan.Update, 1)
	end := s.Sample(2 * time.Second)[0]
	assert.False(t, end.Exiting)
	assert.InDelta(t, c.Y.Map(70), end.Y, 1e-9)
}

func TestKeysMatchFrameAcrossTicks(t *testing.T) {
	c := newChart(t)
	s := New(c, d)

	frames := []dataset.Frame{
		frame(2000, record("A", 1000, 70, 100), record("B", 500, 50, 300)),
		frame(2001, record("B", 600, 52, 310), record("C", 4000, 75, 50)),
		frame(2002, record("C", 4100, 76, 55)),
	}
	for i, f := range frames {
		at := time.Duration(i) * 800 * time.Millisecond
		s.Apply(c.Frame(f), at)

		var want []string
		for _, r := range f.Renderable() {
			want = append(want, r.Country)
		}
		assert.ElementsMatch(t, want, s.Keys(), "year %d", f.Year)
	}
}

func TestZeroDurationJumps(t *testing.T) {
	c := newChart(t)
	s := New(c, 0)

	s.Apply(c.Frame(frame(2000, record("A", 1000, 70, 100))), 0)
	assert.InDelta(t, c.Y.Map(70), s.Sample(0)[0].Y, 1e-9)
}

func TestSettle(t *testing.T) {
	c := newChart(t)
	v := c.Frame(frame(2000, record("A", 1000, 70, 100), record("B", 500, 50, 300)))

	st := Settle(v)
	require.Len(t, st, 2)
	for i, p := range v.Points {
		assert.Equal(t, p.Key, st[i].Key)
		assert.Equal(t, Attrs{X: p.X, Y: p.Y, R: p.R}, st[i].Attrs)
	}
}

func TestCubicInOut(t *testing.T) {
	assert.Equal(t, 0.0, CubicInOut(0))
	assert.Equal(t, 0.5, CubicInOut(0.5))
	assert.Equal(t, 1.0, CubicInOut(1))
	assert.Less(t, CubicInOut(0.25), 0.25)
	assert.Greater(t, CubicInOut(0.75), 0.75)
}

func TestHover(t *testing.T) {
	c := newChart(t)
	s := New(c, 0)
	s.Apply(c.Frame(frame(2000,
		record("A", 1000, 70, 100),
		record("B", 500, 50, 300),
		record("C", 40000, 80, 200),
	)), 0)

	_, ok := s.Tooltip()
	assert.False(t, ok)

	assert.True(t, s.Hover("A"))
	tip, ok := s.Tooltip()
	require.True(t, ok)
	assert.Equal(t, "A", tip.Lines[0].Value)
	assert.False(t, s.Hover("Z"))

	s.Unhover()
	_, ok = s.Hovered()
	assert.False(t, ok)

	// ordered by x: B(500), A(1000), C(40000)
	key, _ := s.HoverNext(1, 0)
	assert.Equal(t, "B", key)
	key, _ = s.HoverNext(1, 0)
	assert.Equal(t, "A", key)
	key, _ = s.HoverNext(1, 0)
	assert.Equal(t, "C", key)
	key, _ = s.HoverNext(1, 0)
	assert.Equal(t, "B", key)
	key, _ = s.HoverNext(-1, 0)
	assert.Equal(t, "C", key)
}

func TestHoverAt(t *testing.T) {
	c := newChart(t)
	s := New(c, 0)
	s.Apply(c.Frame(frame(2000, record("A", 1000, 70, 100))), 0)

	st := s.Sample(0)[0]
	key, ok := s.HoverAt(st.X+1, st.Y-1, 0)
	assert.True(t, ok)
	assert.Equal(t, "A", key)

	_, ok = s.HoverAt(st.X+st.R+10, st.Y, 0)
	assert.False(t, ok)
	_, ok = s.Hovered()
	assert.False(t, ok)
}

func TestHoverClearedWhenCircleLeaves(t *testing.T) {
	c := newChart(t)
	s := New(c, d)
	s.Apply(c.Frame(frame(2000, record("A", 1000, 70, 100))), 0)
	s.Hover("A")

	s.Apply(c.Frame(frame(2001)), time.Second)
	s.Sample(time.Second + d)

	_, ok := s.Tooltip()
	assert.False(t, ok)
}
