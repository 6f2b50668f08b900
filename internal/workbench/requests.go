package workbench

import (
	"slices"

	"super8/internal/player"
)

// Filters are the settings shared by preview and convert.
type Filters struct {
	StartAt     float64
	ForcedFPS   int
	Mirror      bool
	Adjustments player.Adjustments
	ExtraArgs   []string
}

// CropDetectRequest builds a crop-detect request for the selected file.
func (w *Workbench) CropDetectRequest(threshold int, startAt float64, forcedFPS int) (player.Request, error) {
	input := w.Input()
	if input == "" {
		return player.Request{}, ErrNoFile
	}
	return player.Request{
		Input:               input,
		StartAt:             startAt,
		CropDetectThreshold: threshold,
		ForcedFPS:           forcedFPS,
	}, nil
}

// PreviewRequest builds a preview of the selected file with the stored crop.
func (w *Workbench) PreviewRequest(filters Filters) (player.Request, error) {
	return w.filteredRequest(filters, "")
}

// ConvertRequest builds a conversion of the selected file into Output().
func (w *Workbench) ConvertRequest(filters Filters) (player.Request, error) {
	return w.filteredRequest(filters, w.Output())
}

func (w *Workbench) filteredRequest(filters Filters, output string) (player.Request, error) {
	input := w.Input()
	if input == "" {
		return player.Request{}, ErrNoFile
	}
	rect, ok := w.Crop()
	if !ok {
		return player.Request{}, ErrNoCrop
	}
	return player.Request{
		Input:       input,
		StartAt:     filters.StartAt,
		Crop:        &rect,
		Mirror:      filters.Mirror,
		ForcedFPS:   filters.ForcedFPS,
		Adjustments: filters.Adjustments,
		Output:      output,
		ExtraArgs:   slices.Clone(filters.ExtraArgs),
	}, nil
}
