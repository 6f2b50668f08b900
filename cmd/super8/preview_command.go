package main

import (
	"github.com/spf13/cobra"

	"super8/internal/player"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "preview <input>",
		Short: "Play a capture with the crop and image adjustments applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.bench.SelectFile(args[0]); err != nil {
				return err
			}
			if err := s.bench.SetCrop(filters.crop); err != nil {
				return err
			}
			resolved, err := filters.resolve(cmd, s.cfg)
			if err != nil {
				return err
			}
			req, err := s.bench.PreviewRequest(resolved)
			if err != nil {
				return err
			}

			handle := s.bench.Launch(cmd.Context(), player.OperationPreview, req)
			var failed bool
			obs := reportFailures(cmd.ErrOrStderr(), &failed, player.ObserverFuncs{})
			code, dispatchErr := player.Dispatch(cmd.Context(), handle, obs)
			return finishRun(player.OperationPreview, code, dispatchErr, failed)
		},
	}

	filters.register(cmd)
	return cmd
}
