package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"super8/internal/player"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "convert <input> [output]",
		Short: "Encode a capture with the crop and image adjustments applied",
		Long: "Encode the capture with mpv. Without an output path the capture name is reused\n" +
			"with the configured extension in conversion.output_dir, or next to the input.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.bench.SelectFile(args[0]); err != nil {
				return err
			}
			if len(args) == 2 {
				if err := s.bench.SetOutput(args[1]); err != nil {
					return err
				}
			}
			if err := s.bench.SetCrop(filters.crop); err != nil {
				return err
			}
			resolved, err := filters.resolve(cmd, s.cfg)
			if err != nil {
				return err
			}
			req, err := s.bench.ConvertRequest(resolved)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(req.Output), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			lock := flock.New(req.Output + ".lock")
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("lock output: %w", err)
			}
			if !locked {
				return fmt.Errorf("another conversion is writing %s", req.Output)
			}
			defer func() {
				_ = lock.Unlock()
				_ = os.Remove(lock.Path())
			}()

			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()
			interactive := shouldColorize(stderr)
			progress := newConvertProgress(stderr, filepath.Base(req.Output), interactive)

			handle := s.bench.Launch(cmd.Context(), player.OperationConvert, req)
			var failed bool
			obs := reportFailures(stderr, &failed, player.ObserverFuncs{
				Progress: progress.update,
			})
			code, dispatchErr := player.Dispatch(cmd.Context(), handle, obs)
			progress.finish()
			if err := finishRun(player.OperationConvert, code, dispatchErr, failed); err != nil {
				return err
			}

			size := ""
			if info, statErr := os.Stat(req.Output); statErr == nil {
				size = " (" + humanize.Bytes(uint64(info.Size())) + ")"
			}
			fmt.Fprintf(stdout, "Converted %s%s\n", req.Output, size)
			if shouldColorize(stdout) {
				fmt.Fprint(stdout, "\a")
			}
			return nil
		},
	}

	filters.register(cmd)
	return cmd
}

// convertProgress renders progress events as a bar on terminals and as
// plain percentage lines otherwise.
type convertProgress struct {
	bar  *progressbar.ProgressBar
	out  io.Writer
	last int
}

func newConvertProgress(out io.Writer, label string, interactive bool) *convertProgress {
	p := &convertProgress{out: out, last: -1}
	if interactive {
		p.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(label),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	return p
}

func (p *convertProgress) update(percent int, status string) {
	if percent < 0 {
		return
	}
	if p.bar != nil {
		if status != "" {
			p.bar.Describe(status)
		}
		_ = p.bar.Set(percent)
		return
	}
	// Plain output only reports every tenth percent.
	if step := percent / 10; step != p.last {
		p.last = step
		if status != "" {
			fmt.Fprintf(p.out, "progress %d%% %s\n", percent, status)
		} else {
			fmt.Fprintf(p.out, "progress %d%%\n", percent)
		}
	}
}

func (p *convertProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
