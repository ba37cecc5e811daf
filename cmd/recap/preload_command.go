package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"recap/internal/logging"
	"recap/internal/preload"
	"recap/internal/progress"
	"recap/internal/story"
)

func newPreloadCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preload",
		Short: "Fetch every slide's media and report what loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			pipeline := story.New(cfg, &http.Client{}, ctx.cliLogger())
			cat := progress.NewCatalog(cfg.Story.Language)
			reporter, finish := newProgressReporter(cmd.ErrOrStderr(), cat)

			st, err := pipeline.Run(cmd.Context(), reporter)
			finish()
			if err != nil {
				return fmt.Errorf("%s: %w", cat.Notification(), err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderResults(st.Results))
			s := st.Summary
			fmt.Fprintf(out, "%d loaded, %d failed, %d without media; %s in %s\n",
				s.Loaded, s.Failed, s.Skipped, humanize.Bytes(uint64(s.Bytes)), st.Elapsed.Round(time.Millisecond))
			return nil
		},
	}
	return cmd
}

// newProgressReporter draws a progress bar on terminals and prints sampled
// lines otherwise. finish must be called once the preload returns.
func newProgressReporter(w io.Writer, cat *progress.Catalog) (progress.Reporter, func()) {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		var bar *progressbar.ProgressBar
		reporter := progress.Func(func(s progress.State) {
			if bar == nil {
				bar = progressbar.NewOptions(s.Total,
					progressbar.OptionSetWriter(w),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(30),
					progressbar.OptionClearOnFinish(),
				)
			}
			bar.Describe(cat.Message(s.Loaded, s.Total))
			_ = bar.Set(s.Loaded)
		})
		return reporter, func() {
			if bar != nil {
				_ = bar.Finish()
			}
		}
	}

	sampler := logging.NewProgressSampler(25)
	reporter := progress.Func(func(s progress.State) {
		snap := cat.Snapshot(s)
		if sampler.ShouldLog(float64(snap.Percent)) {
			fmt.Fprintf(w, "%3d%% %s\n", snap.Percent, snap.Message)
		}
	})
	return reporter, func() {}
}

func renderResults(results []preload.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		size, dims, detail := "-", "-", ""
		if r.Asset != nil {
			size = humanize.Bytes(uint64(r.Asset.Bytes))
			if r.Asset.Width > 0 {
				dims = fmt.Sprintf("%dx%d", r.Asset.Width, r.Asset.Height)
			}
			detail = r.Asset.ContentType
		}
		if r.Err != nil {
			detail = truncate(r.Err.Error(), 60)
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Index),
			string(r.Slide.Type),
			string(r.Status),
			size,
			dims,
			r.Elapsed.Round(time.Millisecond).String(),
			detail,
		})
	}
	return renderTable(
		[]string{"#", "Type", "Status", "Size", "Dimensions", "Elapsed", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
}
