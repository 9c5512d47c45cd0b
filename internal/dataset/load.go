package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrEmptyDataset = errors.New("dataset: no frames")

//go:embed data/gapminder.json
var bundled []byte

// Default returns the dataset bundled with the binary.
func Default() (*Dataset, error) {
	ds, err := Parse(bytes.NewReader(bundled))
	if err != nil {
		return nil, fmt.Errorf("bundled dataset: %w", err)
	}
	return ds, nil
}

// Load reads a dataset from path. An empty path loads the bundled dataset.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a JSON array of frames. Records are not validated beyond
// their JSON shape; continent names are canonicalized.
func Parse(r io.Reader) (*Dataset, error) {
	var frames []Frame
	if err := json.NewDecoder(r).Decode(&frames); err != nil {
		return nil, fmt.Errorf("dataset: decode: %w", err)
	}
	if len(frames) == 0 {
		return nil, ErrEmptyDataset
	}

	title := cases.Title(language.English)
	for i := range frames {
		for j := range frames[i].Countries {
			rec := &frames[i].Countries[j]
			rec.Continent = Continent(title.String(strings.TrimSpace(string(rec.Continent))))
		}
	}
	return &Dataset{Frames: frames}, nil
}
