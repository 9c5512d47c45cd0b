package export

import (
	"context"
	"errors"
	"fmt"
	"image/gif"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/scene"
	"github.com/san-kum/bubblechart/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("export: unknown format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatSVG, FormatPNG, FormatGIF, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

type Options struct {
	Formats []Format
	// Years limits per-frame output; empty means every frame.
	Years   []int
	Workers int
	GIF     GIFOptions
	Dataset string
}

// Exporter writes frames of a dataset into a new run directory of a store.
type Exporter struct {
	chart *chart.Chart
	ds    *dataset.Dataset
	store *storage.Store
	log   *zap.Logger

	rasterMu sync.Mutex
	raster   *Raster
}

func NewExporter(c *chart.Chart, ds *dataset.Dataset, store *storage.Store, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{chart: c, ds: ds, store: store, log: log}
}

// Run exports every requested format and records the run in the store.
func (e *Exporter) Run(ctx context.Context, opts Options) (*storage.RunMetadata, error) {
	want := make(map[Format]bool, len(opts.Formats))
	for _, f := range opts.Formats {
		if _, err := ParseFormat(string(f)); err != nil {
			return nil, err
		}
		want[f] = true
	}
	if len(want) == 0 {
		return nil, fmt.Errorf("export: no formats requested")
	}
	if want[FormatGIF] {
		if err := opts.GIF.validate(); err != nil {
			return nil, err
		}
	}

	indices, err := e.frameIndices(opts.Years)
	if err != nil {
		return nil, err
	}

	if err := e.store.Init(); err != nil {
		return nil, err
	}
	run, err := e.store.NewRun()
	if err != nil {
		return nil, err
	}
	log := e.log.With(zap.String("run", run.ID))

	if want[FormatPNG] || want[FormatGIF] {
		r, err := NewRaster()
		if err != nil {
			return nil, err
		}
		defer r.Close()
		e.raster = r
		defer func() { e.raster = nil }()
	}

	var written atomic.Int64
	summaries := make([]storage.FrameSummary, len(indices))
	views := make([]chart.View, len(indices))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for slot, idx := range indices {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f := e.ds.Frames[idx]
			v := e.chart.Frame(f)
			views[slot] = v
			sum := summarize(f, v)

			if want[FormatSVG] {
				name := fmt.Sprintf("frame_%d.svg", v.Year)
				n, err := writeFile(run.Path(name), []byte(FrameSVG(e.chart, v)))
				if err != nil {
					return fmt.Errorf("write %s: %w", name, err)
				}
				written.Add(n)
				sum.Files = append(sum.Files, name)
			}
			if want[FormatPNG] {
				name := fmt.Sprintf("frame_%d.png", v.Year)
				n, err := e.writePNG(run.Path(name), v)
				if err != nil {
					return fmt.Errorf("write %s: %w", name, err)
				}
				written.Add(n)
				sum.Files = append(sum.Files, name)
			}

			summaries[slot] = sum
			log.Debug("frame exported", zap.Int("year", v.Year), zap.Int("points", len(v.Points)))
			if len(v.Unknown) > 0 {
				log.Warn("records with unknown continent", zap.Int("year", v.Year), zap.Strings("countries", v.Unknown))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	formats := make([]string, 0, len(opts.Formats))
	for _, f := range opts.Formats {
		formats = append(formats, string(f))
	}
	meta := storage.RunMetadata{
		Dataset:      opts.Dataset,
		Frames:       len(indices),
		Formats:      formats,
		Width:        e.chart.Layout.OuterWidth(),
		Height:       e.chart.Layout.OuterHeight(),
		RadiusDomain: string(e.chart.Options().RadiusDomain),
	}
	if len(indices) > 0 {
		meta.FirstYear = int(e.ds.Frames[indices[0]].Year)
		meta.LastYear = int(e.ds.Frames[indices[len(indices)-1]].Year)
	}

	if want[FormatJSON] {
		frames := make([]storage.FrameExport, len(views))
		for i, v := range views {
			frames[i] = frameExport(v, summaries[i])
		}
		path := run.Path("frames.json")
		if err := storage.ExportJSON(path, frames); err != nil {
			return nil, fmt.Errorf("write frames.json: %w", err)
		}
		written.Add(fileSize(path))
	}

	if want[FormatGIF] {
		path := run.Path("animation.gif")
		if err := e.writeGIF(ctx, path, opts.GIF); err != nil {
			return nil, fmt.Errorf("write animation.gif: %w", err)
		}
		meta.Animation = "animation.gif"
		written.Add(fileSize(path))
	}

	meta.Bytes = written.Load()
	meta.Timestamp = time.Now()
	if err := e.store.Save(run, meta, summaries); err != nil {
		return nil, err
	}
	meta.ID = run.ID

	log.Info("export complete",
		zap.Int("frames", meta.Frames),
		zap.Strings("formats", formats),
		zap.Int64("bytes", meta.Bytes))
	return &meta, nil
}

func (e *Exporter) frameIndices(years []int) ([]int, error) {
	if len(years) == 0 {
		out := make([]int, e.ds.Len())
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	out := make([]int, 0, len(years))
	for _, y := range years {
		i := e.ds.FrameIndex(y)
		if i < 0 {
			return nil, &chart.FrameError{Year: y, Wrapped: chart.ErrUnknownYear}
		}
		out = append(out, i)
	}
	return out, nil
}

// The gg contexts share font faces, so rasterization runs one frame at a time.
func (e *Exporter) writePNG(path string, v chart.View) (int64, error) {
	e.rasterMu.Lock()
	defer e.rasterMu.Unlock()

	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	if err := e.raster.EncodePNG(file, e.chart, v.Year, scene.Settle(v)); err != nil {
		return 0, err
	}
	info, err := file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (e *Exporter) writeGIF(ctx context.Context, path string, opts GIFOptions) error {
	e.rasterMu.Lock()
	defer e.rasterMu.Unlock()

	anim, err := e.raster.GIF(ctx, e.chart, e.ds, opts)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return gif.EncodeAll(file, anim)
}

func summarize(f dataset.Frame, v chart.View) storage.FrameSummary {
	sum := storage.FrameSummary{
		Year:       v.Year,
		Records:    len(f.Countries),
		Renderable: len(v.Points),
		Unknown:    len(v.Unknown),
	}
	for i, p := range v.Points {
		pop := p.Record.Population
		if i == 0 || pop < sum.MinPop {
			sum.MinPop = pop
		}
		if i == 0 || pop > sum.MaxPop {
			sum.MaxPop = pop
		}
	}
	return sum
}

// FrameData returns the computed positions of a frame in the frames.json
// shape.
func FrameData(f dataset.Frame, v chart.View) storage.FrameExport {
	return frameExport(v, summarize(f, v))
}

func frameExport(v chart.View, sum storage.FrameSummary) storage.FrameExport {
	out := storage.FrameExport{
		Year:       v.Year,
		Records:    sum.Records,
		Renderable: sum.Renderable,
		Unknown:    v.Unknown,
		Points:     make([]storage.PointExport, 0, len(v.Points)),
	}
	for _, p := range v.Points {
		out.Points = append(out.Points, storage.PointExport{
			Country:    p.Key,
			Continent:  string(p.Continent),
			Class:      p.Class,
			Income:     p.Record.Income,
			LifeExp:    p.Record.LifeExp,
			Population: p.Record.Population,
			X:          p.X,
			Y:          p.Y,
			R:          p.R,
		})
	}
	return out
}

func writeFile(path string, data []byte) (int64, error) {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
