package player

import (
	"strconv"
	"strings"
)

// BuildArgs returns the player arguments for req in a fixed order: start
// offset, crop detection, crop, mirror, eq, forced frame rate, extra args,
// input, and finally the output flag when encoding.
func BuildArgs(req Request) []string {
	var args []string

	if req.StartAt != 0 {
		args = append(args, "--start="+formatNumber(req.StartAt))
	}
	if req.CropDetectThreshold > 0 {
		// cropdetect only reports at verbose level.
		args = append(args, "-v", "--vf-add=cropdetect="+strconv.Itoa(req.CropDetectThreshold))
	}
	if req.Crop != nil {
		args = append(args, "--vf-add=lavfi=[crop="+req.Crop.String()+"]")
	}
	if req.Mirror {
		args = append(args, "--vf-add=hflip")
	}
	if len(req.Adjustments) > 0 {
		args = append(args, "--vf-add=eq="+req.Adjustments.String())
	}
	if req.ForcedFPS > 0 {
		args = append(args, "--no-correct-pts", "--vf-add=fps="+strconv.Itoa(req.ForcedFPS))
	}
	args = append(args, req.ExtraArgs...)
	args = append(args, req.Input)
	if output := strings.TrimSpace(req.Output); output != "" {
		args = append(args, "-o", output)
	}
	return args
}

// CommandLine renders binary and args for logs and failure messages.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, part := range append([]string{binary}, args...) {
		if part == "" || strings.ContainsAny(part, " \t\"'") {
			part = strconv.Quote(part)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
