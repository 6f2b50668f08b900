package player

import (
	"maps"
	"slices"
	"strings"

	"super8/internal/crop"
)

// Operation names the three things the player is launched for.
type Operation string

const (
	OperationCropDetect Operation = "crop-detect"
	OperationPreview    Operation = "preview"
	OperationConvert    Operation = "convert"
)

// Operations lists every operation in display order.
var Operations = []Operation{OperationCropDetect, OperationPreview, OperationConvert}

// Request describes one launch. Zero values mean "not set": a zero threshold
// disables crop detection, a nil Crop applies no crop filter, an empty Output
// plays instead of encoding.
type Request struct {
	Input               string
	StartAt             float64
	CropDetectThreshold int
	Crop                *crop.Rect
	Mirror              bool
	ForcedFPS           int
	Adjustments         Adjustments
	Output              string
	ExtraArgs           []string
}

// Operation infers which operation the request performs.
func (r Request) Operation() Operation {
	switch {
	case r.CropDetectThreshold > 0:
		return OperationCropDetect
	case strings.TrimSpace(r.Output) != "":
		return OperationConvert
	default:
		return OperationPreview
	}
}

// clone detaches the request from caller-owned slices and maps.
func (r Request) clone() Request {
	out := r
	if r.Crop != nil {
		rect := *r.Crop
		out.Crop = &rect
	}
	out.Adjustments = maps.Clone(r.Adjustments)
	out.ExtraArgs = slices.Clone(r.ExtraArgs)
	return out
}
