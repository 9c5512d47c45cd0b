package storage

import (
	"encoding/json"
	"io"
	"os"
)

type PointExport struct {
	Country    string   `json:"country"`
	Continent  string   `json:"continent"`
	Class      string   `json:"class"`
	Income     *float64 `json:"income"`
	LifeExp    *float64 `json:"life_exp"`
	Population float64  `json:"population"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	R          float64  `json:"r"`
}

type FrameExport struct {
	Year       int           `json:"year"`
	Records    int           `json:"records"`
	Renderable int           `json:"renderable"`
	Unknown    []string      `json:"unknown_continents,omitempty"`
	Points     []PointExport `json:"points"`
}

func ExportJSON(path string, frames []FrameExport) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, frames)
}

func WriteJSON(w io.Writer, frames []FrameExport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(frames)
}
