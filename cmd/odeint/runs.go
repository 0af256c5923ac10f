package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/odeint/internal/analysis"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/export"
	"github.com/san-kum/odeint/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSPAN\tSTEPPER\tCTRL\tSTEPS\tSTATUS")
	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g]\t%s\t%s\t%d\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.T0, run.T1,
			run.Stepper,
			run.Controller,
			run.Stats.Steps,
			status,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.State, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(states) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, states, times, nil
}

var captions = map[string][]string{
	"pendulum":        {"theta (angle)", "omega (angular velocity)"},
	"double-pendulum": {"theta1", "theta2", "omega1", "omega2"},
	"vanderpol":       {"x", "dx/dt"},
	"lorenz":          {"x", "y", "z"},
	"robertson":       {"y1", "y2", "y3"},
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s (%s)\n", meta.Model, meta.Stepper)
	fmt.Printf("samples: %d\n\n", len(states))
	if meta.Error != "" {
		fmt.Printf("stopped early: %s\n\n", meta.Error)
	}

	numVars := min(len(states[0]), 6)
	for idx := 0; idx < numVars; idx++ {
		data, err := analysis.Component(states, idx)
		if err != nil {
			return err
		}
		caption := fmt.Sprintf("y%d vs time", idx)
		if names, ok := captions[meta.Model]; ok && idx < len(names) {
			caption = names[idx]
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	header := []string{"time"}
	for i := range states[0] {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, s := range states {
		row := []string{strconv.FormatFloat(times[i], 'g', -1, 64)}
		for _, v := range s {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	portrait, err := analysis.NewPhasePortrait(states, xAxis, yAxis)
	if err != nil {
		return err
	}
	fmt.Printf("phase portrait: %s (y%d vs y%d)\n\n", meta.Model, yAxis, xAxis)
	fmt.Print(portrait.ASCII(80, 30))
	return nil
}

func poincarePlot(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	section, err := analysis.NewPoincareSection(times, states, component, threshold, xAxis, yAxis)
	if err != nil {
		return err
	}
	fmt.Printf("poincaré section: %s, y%d crossing %g upwards, %d points\n\n", meta.Model, component, threshold, len(section.Points))
	fmt.Println(section.ASCII(80, 30))
	return nil
}

func spectrumRun(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	series, err := analysis.Component(states, component)
	if err != nil {
		return err
	}
	freqs, power, err := analysis.Spectrum(times, series)
	if err != nil {
		return err
	}
	dominant, err := analysis.DominantFrequency(times, series)
	if err != nil {
		return err
	}

	logPower := make([]float64, len(power)-1)
	for i, p := range power[1:] {
		logPower[i] = math.Log10(p + 1e-300)
	}
	fmt.Printf("spectrum: %s y%d, %d bins up to %.4g\n\n", meta.Model, component, len(freqs), freqs[len(freqs)-1])
	fmt.Println(asciigraph.Plot(logPower, asciigraph.Height(12), asciigraph.Width(80), asciigraph.Caption("log10 power")))
	fmt.Printf("\ndominant frequency: %.6g (period %.6g)\n", dominant, 1/dominant)
	return nil
}

func svgRun(cmd *cobra.Command, args []string) error {
	_, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	portrait, err := analysis.NewPhasePortrait(states, xAxis, yAxis)
	if err != nil {
		return err
	}
	if svgOut == "" {
		return export.PortraitSVG(os.Stdout, portrait, 800, 600, stroke)
	}
	f, err := os.Create(svgOut)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.PortraitSVG(f, portrait, 800, 600, stroke)
}
