package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"super8/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that mpv and the state directories are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			report := &statusReport{colorize: shouldColorize(out)}

			report.section("Configuration")
			report.line("Config file", statusInfo, ctx.configPath)
			report.line("History", statusInfo, yesNo(cfg.History.Enabled))

			report.section("Dependencies")
			for _, status := range deps.CheckSystem(cfg) {
				kind, message := dependencyLine(status)
				if status.Available {
					if version, verr := deps.ToolVersion(cmd.Context(), status.Command); verr == nil && version != "" {
						message = version
					}
				}
				report.line(status.Name, kind, message)
			}

			report.section("Directories")
			for _, dir := range deps.CheckDirectories(cfg) {
				kind := statusOK
				if !dir.Passed {
					kind = statusError
				}
				report.line(dir.Name, kind, fmt.Sprintf("%s (%s)", dir.Path, dir.Detail))
			}

			fmt.Fprintln(out, report.String())
			if report.failures > 0 {
				return fmt.Errorf("%d required check(s) failed", report.failures)
			}
			return nil
		},
	}
}

func dependencyLine(status deps.Status) (statusKind, string) {
	switch {
	case status.Available:
		return statusOK, status.Command
	case status.Blocking():
		return statusError, status.Detail
	default:
		return statusWarn, status.Detail
	}
}
