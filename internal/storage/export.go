package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/driver"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/experiment"
)

type ExportData struct {
	Model      string             `json:"model"`
	Stepper    string             `json:"stepper"`
	Controller string             `json:"controller"`
	T0         float64            `json:"t0"`
	T1         float64            `json:"t1"`
	Tolerances dynamo.Tolerances  `json:"tolerances"`
	Stats      driver.Stats       `json:"stats"`
	Times      []float64          `json:"times"`
	States     []dynamo.State     `json:"states"`
	Metrics    map[string]float64 `json:"metrics"`
}

func newExport(cfg *config.Config, result *experiment.Result) ExportData {
	return ExportData{
		Model:      cfg.Model,
		Stepper:    cfg.Stepper,
		Controller: cfg.Controller,
		T0:         cfg.T0,
		T1:         cfg.T1,
		Tolerances: cfg.Tol,
		Stats:      result.Stats,
		Times:      result.Times,
		States:     result.States,
		Metrics:    result.Metrics,
	}
}

// WriteJSON encodes a run as indented JSON.
func WriteJSON(w io.Writer, cfg *config.Config, result *experiment.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExport(cfg, result))
}

func ExportJSON(path string, cfg *config.Config, result *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, cfg, result)
}

func ExportJSONStdout(cfg *config.Config, result *experiment.Result) error {
	return WriteJSON(os.Stdout, cfg, result)
}
