package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"renamix/internal/compose"
	"renamix/internal/executor"
	"renamix/internal/fsys"
	"renamix/internal/pattern"
	"renamix/internal/plan"
	"renamix/internal/watcher"
)

var (
	watchGlob    string
	watchKeepExt bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory> <regex> <template>",
	Short: "Watch a directory and rename files as they appear",
	Long: `Monitors a directory and applies the rename rule to each new file
once it has finished being written. Every applied rename is journaled
exactly like a one-shot run. Stops on interrupt.

Increment mode is not available while watching: files arrive one at a
time, so there is no stable plan-wide counter.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := newOutput()
		fs := fsys.OS{}
		dir := args[0]

		matcher, err := pattern.Compile(pattern.Spec{Glob: watchGlob, Regex: args[1]})
		if err != nil {
			return err
		}
		template, err := compose.Parse(args[2])
		if err != nil {
			return err
		}
		builder, err := plan.NewBuilder(fs, matcher, template, plan.Options{
			Mode:          plan.ModePattern,
			KeepExtension: watchKeepExt,
		})
		if err != nil {
			return err
		}

		log, err := openJournal()
		if err != nil {
			return err
		}
		defer log.Close()

		exec := executor.New(fs, log)
		handler := func(path string) (bool, error) {
			entry := fsys.Entry{
				Name: filepath.Base(path),
				Path: path,
				Dir:  filepath.Dir(path),
			}
			p, err := builder.BuildOne(entry)
			if err != nil {
				out.Error("cannot rename %s: %v", entry.Name, err)
				return false, err
			}
			if p.MatchedCount() == 0 {
				return false, nil
			}

			result, err := exec.Apply(p, false)
			if err != nil {
				out.Error("WARNING: %v", err)
				return false, err
			}
			for _, item := range result.Items {
				if item.Outcome == executor.OutcomeApplied {
					out.Info("renamed %s -> %s", filepath.Base(item.Source), filepath.Base(item.Target))
				}
			}
			return result.Applied > 0, nil
		}

		w := watcher.New(watcher.DefaultConfig(), handler)
		if err := w.Start(dir); err != nil {
			return fmt.Errorf("failed to start watching %s: %w", dir, err)
		}
		out.Info("Watching %s (interrupt to stop)", dir)

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		<-interrupt

		summary := w.Stop()
		out.Info("Watched for %s: %d renamed, %d skipped, %d errors",
			summary.Duration.Round(time.Second), summary.Renamed, summary.Skipped, summary.Errors)
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchGlob, "glob", "*", "glob filtering which files are considered")
	watchCmd.Flags().BoolVar(&watchKeepExt, "keep-ext", false, "re-append the source extension if the target drops it")

	rootCmd.AddCommand(watchCmd)
}
