package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"recap/internal/progress"
	"recap/internal/render"
	"recap/internal/story"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var live bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Preload media and write the story as a standalone HTML page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat := progress.NewCatalog(cfg.Story.Language)
			reporter, finish := newProgressReporter(cmd.ErrOrStderr(), cat)
			st, err := story.New(cfg, &http.Client{}, ctx.cliLogger()).Run(cmd.Context(), reporter)
			finish()
			if err != nil {
				return fmt.Errorf("%s: %w", cat.Notification(), err)
			}

			var w io.Writer = cmd.OutOrStdout()
			target := strings.TrimSpace(outputPath)
			if target != "" && target != "-" {
				f, err := os.Create(target)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := render.Page(w, render.PageData{
				Title:       cfg.Story.Title,
				Lang:        cat.Language(),
				Units:       st.Units,
				Static:      !live,
				BrokenLabel: cat.BrokenMedia(),
			}); err != nil {
				return fmt.Errorf("render page: %w", err)
			}
			if target != "" && target != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d slides to %s\n", len(st.Units), target)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&live, "live", false, "Leave text hidden and videos paused, as served pages start")
	return cmd
}
