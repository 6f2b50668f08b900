package main

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"super8/internal/config"
	"super8/internal/player"
	"super8/internal/workbench"
)

// filterFlags are the options preview and convert share. Unset flags fall
// back to the [conversion] and [eq] config sections.
type filterFlags struct {
	crop      string
	startAt   float64
	fps       int
	mirror    bool
	eq        []string
	noEQ      bool
	extraArgs []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.crop, "crop", "", "Crop rectangle as width:height:x:y")
	flags.Float64Var(&f.startAt, "start", 0, "Start offset in seconds")
	flags.IntVar(&f.fps, "fps", 0, "Force the output frame rate")
	flags.BoolVar(&f.mirror, "mirror", false, "Mirror the picture horizontally")
	flags.StringArrayVar(&f.eq, "eq", nil, "Image adjustment as key=percent, for example contrast=130 (repeatable)")
	flags.BoolVar(&f.noEQ, "no-eq", false, "Disable image adjustments")
	flags.StringArrayVar(&f.extraArgs, "arg", nil, "Extra argument passed to mpv (repeatable)")
	_ = cmd.MarkFlagRequired("crop")
}

func (f *filterFlags) resolve(cmd *cobra.Command, cfg *config.Config) (workbench.Filters, error) {
	filters := workbench.Filters{
		StartAt:   cfg.Conversion.StartAt,
		ForcedFPS: cfg.Conversion.ForcedFPS,
		Mirror:    cfg.Conversion.Mirror,
		ExtraArgs: f.extraArgs,
	}
	flags := cmd.Flags()
	if flags.Changed("start") {
		filters.StartAt = f.startAt
	}
	if flags.Changed("fps") {
		filters.ForcedFPS = f.fps
	}
	if flags.Changed("mirror") {
		filters.Mirror = f.mirror
	}
	if f.noEQ {
		return filters, nil
	}

	percent := maps.Clone(cfg.EQPercentages())
	if percent == nil && len(f.eq) > 0 {
		percent = map[string]int{}
	}
	for _, pair := range f.eq {
		key, value, err := parseEQFlag(pair)
		if err != nil {
			return workbench.Filters{}, err
		}
		percent[key] = value
	}
	filters.Adjustments = player.AdjustmentsFromPercent(percent)
	return filters, nil
}

func parseEQFlag(pair string) (string, int, error) {
	key, raw, ok := strings.Cut(pair, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", 0, fmt.Errorf("--eq %q: expected key=percent", pair)
	}
	value, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(raw, "%")))
	if err != nil {
		return "", 0, fmt.Errorf("--eq %q: percent must be an integer", pair)
	}
	return key, value, nil
}
