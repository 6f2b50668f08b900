package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"super8/internal/crop"
	"super8/internal/logging"
	"super8/internal/player"
)

func newCropDetectCommand(ctx *commandContext) *cobra.Command {
	var (
		startAt   float64
		threshold int
		settle    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "cropdetect <input>",
		Short: "Detect the crop rectangle of a capture",
		Long: "Play the capture with mpv's cropdetect filter and print every new crop rectangle.\n" +
			"The run stops once the rectangle has not changed for the settle window.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.bench.SelectFile(args[0]); err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("at") {
				startAt = s.cfg.CropDetect.StartAt
			}
			if !flags.Changed("threshold") {
				threshold = s.cfg.CropDetect.Threshold
			}
			if !flags.Changed("settle") {
				settle = s.cfg.SettleWindow()
			}
			if threshold < 1 || threshold > 255 {
				return errors.New("--threshold must be between 1 and 255")
			}
			req, err := s.bench.CropDetectRequest(threshold, startAt, s.cfg.CropDetect.ForcedFPS)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tracker := crop.NewTracker(settle)
			s.logger.Info("crop detection starting",
				logging.Int("threshold", threshold),
				logging.Float64("start_at", startAt),
				logging.Duration("settle", settle),
			)
			handle := s.bench.Launch(cmd.Context(), player.OperationCropDetect, req)

			var failed bool
			obs := reportFailures(cmd.ErrOrStderr(), &failed, player.ObserverFuncs{
				CropCandidate: func(text string) {
					now := time.Now()
					if rect, changed := tracker.Observe(text, now); changed {
						fmt.Fprintf(out, "candidate %s\n", rect)
					}
					if tracker.Settled(now) {
						handle.Stop()
					}
				},
			})
			code, dispatchErr := player.Dispatch(cmd.Context(), handle, obs)
			rect, ok := tracker.Current()
			if ok && errors.Is(dispatchErr, context.Canceled) {
				// An interrupted detection keeps the last accepted rectangle.
				dispatchErr = nil
			}
			if err := finishRun(player.OperationCropDetect, code, dispatchErr, failed); err != nil {
				return err
			}

			if !ok {
				return errors.New("no crop rectangle detected")
			}
			if err := s.bench.SetCrop(rect.String()); err != nil {
				return err
			}
			fmt.Fprintf(out, "crop %s\n", rect)
			return nil
		},
	}

	cmd.Flags().Float64Var(&startAt, "at", 0, "Start offset in seconds (default from config)")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "cropdetect black threshold 1-255 (default from config)")
	cmd.Flags().DurationVar(&settle, "settle", 0, "Stop once the rectangle is unchanged this long (default from config)")
	return cmd
}
