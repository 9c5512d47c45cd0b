package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[
  {"year": "2000", "countries": [
    {"country": "A", "continent": "asia", "income": 1000, "life_exp": 70, "population": 100},
    {"country": "B", "continent": "Europe", "income": null, "life_exp": 75, "population": 5000},
    {"country": "C", "continent": "OCEANIA", "income": 3000, "life_exp": null, "population": 10},
    {"country": "D", "continent": "africa", "income": 0, "life_exp": 50, "population": 10}
  ]},
  {"year": 2001, "countries": [
    {"country": "A", "continent": "asia", "income": 2000, "life_exp": 72, "population": 200}
  ]}
]`

func TestParse(t *testing.T) {
	ds, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	assert.Equal(t, Year(2000), ds.Frames[0].Year)
	assert.Equal(t, Year(2001), ds.Frames[1].Year)
	assert.Equal(t, Asia, ds.Frames[0].Countries[0].Continent)
	assert.Equal(t, Continent("Oceania"), ds.Frames[0].Countries[2].Continent)
	assert.Nil(t, ds.Frames[0].Countries[1].Income)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader(`[]`))
	assert.True(t, errors.Is(err, ErrEmptyDataset))

	_, err = Parse(strings.NewReader(`{"year": 1}`))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader(`[{"year": "abc", "countries": []}]`))
	assert.Error(t, err)
}

func TestRenderable(t *testing.T) {
	ds, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	recs := ds.Frames[0].Renderable()
	require.Len(t, recs, 1)
	assert.Equal(t, "A", recs[0].Country)
}

func TestContinentKnown(t *testing.T) {
	for _, c := range Continents {
		assert.True(t, c.Known(), string(c))
	}
	assert.False(t, Continent("Oceania").Known())
	assert.False(t, Continent("").Known())
}

func TestHistoryAndRanges(t *testing.T) {
	ds, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	hist := ds.History("A")
	require.Len(t, hist, 2)
	assert.Equal(t, HistoryPoint{Year: 2000, LifeExp: 70, Income: 1000}, hist[0])
	assert.Equal(t, 2001, hist[1].Year)
	assert.Empty(t, ds.History("B"))

	lo, hi, ok := ds.PopulationRange()
	require.True(t, ok)
	assert.Equal(t, 100.0, lo)
	assert.Equal(t, 200.0, hi)

	assert.Equal(t, 1, ds.FrameIndex(2001))
	assert.Equal(t, -1, ds.FrameIndex(1999))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	ds, err := Load("")
	require.NoError(t, err)
	require.NotZero(t, ds.Len())

	for i := 1; i < ds.Len(); i++ {
		if ds.Frames[i].Year <= ds.Frames[i-1].Year {
			t.Fatalf("frames not chronological at %d", i)
		}
	}
	for _, r := range ds.Frames[0].Countries {
		assert.True(t, r.Continent.Known(), r.Country)
	}
}
