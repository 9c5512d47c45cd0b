package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Dataset      string    `json:"dataset"`
	FirstYear    int       `json:"first_year"`
	LastYear     int       `json:"last_year"`
	Frames       int       `json:"frames"`
	Formats      []string  `json:"formats"`
	Width        float64   `json:"width"`
	Height       float64   `json:"height"`
	RadiusDomain string    `json:"radius_domain"`
	Animation    string    `json:"animation,omitempty"`
	Bytes        int64     `json:"bytes"`
}

// FrameSummary describes one exported frame.
type FrameSummary struct {
	Year       int
	Records    int
	Renderable int
	Unknown    int
	MinPop     float64
	MaxPop     float64
	Files      []string
}

// Run is an export directory that has been created but not yet saved.
type Run struct {
	ID  string
	Dir string
}

// NewRun creates a fresh directory for an export.
func (s *Store) NewRun() (*Run, error) {
	id := "export_" + strings.SplitN(uuid.NewString(), "-", 2)[0]
	dir := s.RunDir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Run{ID: id, Dir: dir}, nil
}

// RunDir returns the directory of the run with id.
func (s *Store) RunDir(id string) string {
	return filepath.Join(s.baseDir, id)
}

// Path returns the location of name inside the run directory.
func (r *Run) Path(name string) string {
	return filepath.Join(r.Dir, name)
}

// Save writes the run metadata and the frame summary CSV.
func (s *Store) Save(run *Run, meta RunMetadata, frames []FrameSummary) error {
	meta.ID = run.ID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	metaFile, err := os.Create(run.Path("metadata.json"))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	csvFile, err := os.Create(run.Path("frames.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	header := []string{"year", "records", "renderable", "unknown", "min_population", "max_population", "files"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Year),
			strconv.Itoa(f.Records),
			strconv.Itoa(f.Renderable),
			strconv.Itoa(f.Unknown),
			strconv.FormatFloat(f.MinPop, 'f', 0, 64),
			strconv.FormatFloat(f.MaxPop, 'f', 0, 64),
			strings.Join(f.Files, ";"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the saved runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]FrameSummary, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []FrameSummary{}, nil
	}

	out := make([]FrameSummary, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 7 {
			continue
		}
		var f FrameSummary
		var err error
		if f.Year, err = strconv.Atoi(rec[0]); err != nil {
			continue
		}
		f.Records, _ = strconv.Atoi(rec[1])
		f.Renderable, _ = strconv.Atoi(rec[2])
		f.Unknown, _ = strconv.Atoi(rec[3])
		f.MinPop, _ = strconv.ParseFloat(rec[4], 64)
		f.MaxPop, _ = strconv.ParseFloat(rec[5], 64)
		if rec[6] != "" {
			f.Files = strings.Split(rec[6], ";")
		}
		out = append(out, f)
	}
	return out, nil
}
