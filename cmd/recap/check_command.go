package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"recap/internal/manifest"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load the manifest and report problems without fetching media",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			loader := manifest.NewLoader(cfg.Story.Manifest, &http.Client{}, cfg.Preload.UserAgent, ctx.cliLogger())
			m, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, m.Len())
			for i, slide := range m.Slides() {
				rows = append(rows, []string{
					strconv.Itoa(i),
					string(slide.Type),
					truncate(slide.Text, 40),
					truncate(slide.Src, 60),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Type", "Text", "Source"}, rows, []columnAlignment{alignRight}))

			counts := m.Counts()
			fmt.Fprintf(out, "%d slides (%d image, %d video, %d other) from %s\n",
				m.Len(), counts["image"], counts["video"], counts["other"], m.Source())

			warnings := manifest.Lint(m)
			if len(warnings) == 0 {
				fmt.Fprintln(out, "No problems found")
				return nil
			}
			warnRows := make([][]string, 0, len(warnings))
			for _, w := range warnings {
				warnRows = append(warnRows, []string{strconv.Itoa(w.Index), w.Message, w.Suggestion})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Warning", "Suggestion"}, warnRows, []columnAlignment{alignRight}))
			if strict {
				return fmt.Errorf("%d manifest warning(s)", len(warnings))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any warning is reported")
	return cmd
}
