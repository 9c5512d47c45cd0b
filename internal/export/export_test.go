package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(country string, cont dataset.Continent, income, lifeExp, pop float64) dataset.Record {
	return dataset.Record{
		Country:    country,
		Continent:  cont,
		Income:     dataset.Float(income),
		LifeExp:    dataset.Float(lifeExp),
		Population: pop,
	}
}

func testDataset() *dataset.Dataset {
	return &dataset.Dataset{Frames: []dataset.Frame{
		{Year: 1950, Countries: []dataset.Record{
			rec("Chad", dataset.Africa, 900, 38, 2.6e6),
			rec("Peru", dataset.Americas, 3500, 43, 7.6e6),
		}},
		{Year: 1951, Countries: []dataset.Record{
			rec("Chad", dataset.Africa, 920, 39, 2.7e6),
			rec("Peru", dataset.Americas, 3600, 44, 7.8e6),
			rec("Atlantis", "Oceania", 5000, 60, 1e5),
		}},
		{Year: 1952, Countries: []dataset.Record{
			rec("Peru", dataset.Americas, 3700, 45, 8e6),
		}},
	}}
}

func smallChart(t *testing.T, w, h float64) *chart.Chart {
	t.Helper()
	c, err := chart.New(chart.NewLayout(w, h, chart.DefaultChrome, chart.DefaultMargins), chart.DefaultOptions(), nil)
	require.NoError(t, err)
	return c
}

func TestFrameSVG(t *testing.T) {
	c := smallChart(t, 960, 620)
	ds := testDataset()
	v, err := c.FrameForYear(ds, 1951)
	require.NoError(t, err)

	out := FrameSVG(c, v)

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `width="960"`)
	assert.Contains(t, out, `class="year-label"`)
	assert.Contains(t, out, ">1951</text>")
	assert.Contains(t, out, ">$40000</text>")
	assert.Contains(t, out, "Life Expectancy (Years)")
	assert.Contains(t, out, `class="point fill-africa"`)
	assert.Contains(t, out, `class="point fill-unknown"`)
	assert.Contains(t, out, "Country: Peru")
	assert.Equal(t, 3, strings.Count(out, "<circle "))
	for _, cont := range dataset.Continents {
		assert.Contains(t, out, ">"+string(cont)+"</text>")
	}
}

func TestSVGEscapesText(t *testing.T) {
	c := smallChart(t, 960, 620)
	f := dataset.Frame{Year: 2000, Countries: []dataset.Record{
		rec("Bosnia & <Herzegovina>", dataset.Europe, 4000, 70, 4e6),
	}}

	out := FrameSVG(c, c.Frame(f))

	assert.Contains(t, out, "Bosnia &amp; &lt;Herzegovina&gt;")
	assert.NotContains(t, out, "<Herzegovina>")
}

func TestPlaySamplesEveryFrame(t *testing.T) {
	c := smallChart(t, 960, 620)
	ds := testDataset()
	opts := GIFOptions{Interval: 400 * time.Millisecond, Transition: 200 * time.Millisecond, FPS: 10}

	var samples []Sample
	err := Play(context.Background(), c, ds, opts, func(s Sample) error {
		samples = append(samples, s)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, samples, 12)

	years := []int{}
	for i, s := range samples {
		assert.Equal(t, time.Duration(i)*100*time.Millisecond, s.At)
		if i%4 == 0 {
			years = append(years, s.Year)
		}
	}
	assert.Equal(t, []int{1950, 1951, 1952}, years)

	first := samples[0].Circles
	require.Len(t, first, 2)
	for _, st := range first {
		assert.Equal(t, c.Baseline(), st.Y)
	}

	// Chad leaves in 1952 and is gone once its exit transition is done.
	last := samples[len(samples)-1].Circles
	require.Len(t, last, 1)
	assert.Equal(t, "Peru", last[0].Key)
}

func TestPlayStopsOnEmitError(t *testing.T) {
	c := smallChart(t, 960, 620)
	boom := errors.New("boom")
	calls := 0

	err := Play(context.Background(), c, testDataset(), GIFOptions{Interval: time.Second, Transition: 0, FPS: 5}, func(Sample) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestPlayCancelled(t *testing.T) {
	c := smallChart(t, 960, 620)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Play(ctx, c, testDataset(), GIFOptions{Interval: time.Second, FPS: 5}, func(Sample) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlayRejectsZeroFPS(t *testing.T) {
	c := smallChart(t, 960, 620)
	err := Play(context.Background(), c, testDataset(), GIFOptions{Interval: time.Second}, func(Sample) error { return nil })
	assert.Error(t, err)
}

func TestRasterDraw(t *testing.T) {
	r, err := NewRaster()
	require.NoError(t, err)
	defer r.Close()

	c := smallChart(t, 320, 240)
	v, err := c.FrameForYear(testDataset(), 1950)
	require.NoError(t, err)

	img, err := r.Draw(c, v.Year, nil)
	require.NoError(t, err)
	assert.Equal(t, int(c.Layout.OuterWidth()), img.Bounds().Dx())
	assert.Equal(t, int(c.Layout.OuterHeight()), img.Bounds().Dy())
}

func TestRasterEmptyCanvas(t *testing.T) {
	r, err := NewRaster()
	require.NoError(t, err)
	defer r.Close()

	c, err := chart.New(chart.NewLayout(0, 0, 0, chart.Margins{}), chart.DefaultOptions(), nil)
	require.NoError(t, err)
	_, err = r.Draw(c, 1950, nil)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("png")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	_, err = ParseFormat("bmp")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExporterRun(t *testing.T) {
	dir := t.TempDir()
	st := storage.New(dir)
	ds := testDataset()
	c := smallChart(t, 480, 360)
	e := NewExporter(c, ds, st, nil)

	meta, err := e.Run(context.Background(), Options{
		Formats: []Format{FormatSVG, FormatJSON},
		Workers: 2,
		Dataset: "test",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, meta.Frames)
	assert.Equal(t, 1950, meta.FirstYear)
	assert.Equal(t, 1952, meta.LastYear)
	assert.Positive(t, meta.Bytes)

	for _, name := range []string{"frame_1950.svg", "frame_1951.svg", "frame_1952.svg", "frames.json", "metadata.json", "frames.csv"} {
		_, err := os.Stat(filepath.Join(dir, meta.ID, name))
		assert.NoError(t, err, name)
	}

	frames, err := st.LoadFrames(meta.ID)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, 3, frames[1].Records)
	assert.Equal(t, 1, frames[1].Unknown)
	assert.Equal(t, []string{"frame_1951.svg"}, frames[1].Files)
	assert.Equal(t, 8e6, frames[2].MaxPop)

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "test", runs[0].Dataset)
}

func TestExporterSelectedYears(t *testing.T) {
	st := storage.New(t.TempDir())
	e := NewExporter(smallChart(t, 480, 360), testDataset(), st, nil)

	meta, err := e.Run(context.Background(), Options{Formats: []Format{FormatSVG}, Years: []int{1952}})
	require.NoError(t, err)
	assert.Equal(t, 1, meta.Frames)
	assert.Equal(t, 1952, meta.FirstYear)

	_, err = e.Run(context.Background(), Options{Formats: []Format{FormatSVG}, Years: []int{1800}})
	assert.ErrorIs(t, err, chart.ErrUnknownYear)
}

func TestExporterRejectsBadOptions(t *testing.T) {
	e := NewExporter(smallChart(t, 480, 360), testDataset(), storage.New(t.TempDir()), nil)

	_, err := e.Run(context.Background(), Options{})
	assert.Error(t, err)

	_, err = e.Run(context.Background(), Options{Formats: []Format{"tiff"}})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = e.Run(context.Background(), Options{Formats: []Format{FormatGIF}})
	assert.Error(t, err)
}

func TestExporterPNGAndGIF(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(smallChart(t, 240, 200), testDataset(), storage.New(dir), nil)

	meta, err := e.Run(context.Background(), Options{
		Formats: []Format{FormatPNG, FormatGIF},
		GIF:     GIFOptions{Interval: 200 * time.Millisecond, Transition: 100 * time.Millisecond, FPS: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, "animation.gif", meta.Animation)

	for _, name := range []string{"frame_1950.png", "animation.gif"} {
		info, err := os.Stat(filepath.Join(dir, meta.ID, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size())
	}
}
