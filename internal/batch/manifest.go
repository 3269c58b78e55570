package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"vehicle-customizer/internal/lifecycle"
)

// ManifestEntry describes one rendered vehicle.
type ManifestEntry struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Year       string `json:"year,omitempty"`
	Asset      string `json:"asset"`
	Image      string `json:"image,omitempty"`
	Paint      string `json:"paint"`
	Wheel      string `json:"wheel"`
	PaintNodes int    `json:"paint_nodes"`
	WheelNodes int    `json:"wheel_nodes"`
	Error      string `json:"error,omitempty"`
}

// WriteManifest writes the run's results as indented JSON to path.
func WriteManifest(path string, colors lifecycle.ColorState, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			ID:         r.Vehicle.ID,
			Name:       r.Vehicle.Name,
			Year:       r.Vehicle.Year,
			Asset:      r.Vehicle.AssetPath,
			Image:      r.Image,
			Paint:      colors.Paint.String(),
			Wheel:      colors.Wheel.String(),
			PaintNodes: r.PaintNodes,
			WheelNodes: r.WheelNodes,
			Error:      r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	return nil
}
