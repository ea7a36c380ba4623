package storage

import (
	"encoding/json"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/cartwin/internal/sim"
)

type ExportData struct {
	Run     RunMetadata  `json:"run"`
	Samples []sim.Sample `json:"samples"`
}

func ExportJSON(w io.Writer, meta RunMetadata, samples []sim.Sample) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Samples: samples})
}

func ExportCSV(w io.Writer, samples []sim.Sample) error {
	return gocsv.Marshal(samples, w)
}
