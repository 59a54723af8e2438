package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"renamix/internal/compose"
	"renamix/internal/config"
	"renamix/internal/executor"
	"renamix/internal/fsys"
	"renamix/internal/pattern"
	"renamix/internal/plan"
)

var (
	runGlob     string
	runMode     string
	runStart    int
	runRecurse  bool
	runDryRun   bool
	runYes      bool
	runKeepExt  bool
	runFromFile string
)

var runCmd = &cobra.Command{
	Use:   "run [directory regex template]",
	Short: "Plan and apply a batch rename",
	Long: `Builds a rename plan for the files in a directory, previews it, and
applies it after confirmation. The regular expression is matched against
each basename; its capture groups fill the template's {} and {name}
placeholders. With --from-file, all inputs come from a YAML job file
instead of arguments.`,
	Example: `  renamix run ./photos '^IMG_(\d+)' 'vacation_{}.jpg'
  renamix run ./docs '(?P<year>\d{4})-(?P<title>.+)\.txt' '{title}_{year}.txt' --dry-run
  renamix run ./scans 'scan' 'page_{counter}.pdf' --mode increment --start 10
  renamix run --from-file batch.yaml`,
	Args: cobra.RangeArgs(0, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := resolveJob(args)
		if err != nil {
			return err
		}
		return runRename(job)
	},
}

func init() {
	runCmd.Flags().StringVar(&runGlob, "glob", "*", "glob filtering the directory listing")
	runCmd.Flags().StringVar(&runMode, "mode", string(plan.ModePattern), "rename mode: pattern or increment")
	runCmd.Flags().IntVar(&runStart, "start", 1, "first {counter} value in increment mode")
	runCmd.Flags().BoolVar(&runRecurse, "recursive", false, "include files in subdirectories")
	runCmd.Flags().BoolVarP(&runDryRun, "dry-run", "n", false, "preview only, rename nothing")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "apply without confirmation")
	runCmd.Flags().BoolVar(&runKeepExt, "keep-ext", false, "re-append the source extension if the target drops it")
	runCmd.Flags().StringVar(&runFromFile, "from-file", "", "load the job from a YAML file")

	rootCmd.AddCommand(runCmd)
}

// resolveJob builds the job from the command line, or loads it from the
// job file when --from-file is given.
func resolveJob(args []string) (*config.Job, error) {
	if runFromFile != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("positional arguments cannot be combined with --from-file")
		}
		return config.Load(runFromFile)
	}

	if len(args) != 3 {
		return nil, fmt.Errorf("expected directory, regex, and template arguments (or --from-file)")
	}

	job := &config.Job{
		Directory:     args[0],
		Glob:          runGlob,
		Regex:         args[1],
		Template:      args[2],
		Mode:          runMode,
		Start:         runStart,
		Recursive:     runRecurse,
		DryRun:        runDryRun,
		KeepExtension: runKeepExt,
		Yes:           runYes,
	}
	job.ApplyDefaults()
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// runRename compiles the job, builds the plan, and applies it.
func runRename(job *config.Job) error {
	out := newOutput()
	fs := fsys.OS{}

	matcher, err := pattern.Compile(pattern.Spec{Glob: job.Glob, Regex: job.Regex})
	if err != nil {
		return err
	}
	template, err := compose.Parse(job.Template)
	if err != nil {
		return err
	}
	builder, err := plan.NewBuilder(fs, matcher, template, job.PlanOptions())
	if err != nil {
		return err
	}

	p, err := builder.Build(job.Directory)
	if err != nil {
		return err
	}
	if p.MatchedCount() == 0 {
		out.Info("No matching files found")
		return nil
	}

	out.PlanPreview(p)

	if job.DryRun {
		result, err := executor.New(fs, nil).Apply(p, true)
		if err != nil {
			return err
		}
		out.Report(result)
		return nil
	}

	if !job.Yes && !confirm("Apply these changes?") {
		out.Info("Cancelled, nothing renamed")
		return nil
	}

	log, err := openJournal()
	if err != nil {
		return err
	}
	defer log.Close()

	result, applyErr := executor.New(fs, log).Apply(p, false)
	if result != nil {
		out.Report(result)
	}
	if applyErr != nil {
		// Journal write failures leave applied renames unrecorded;
		// make sure that is impossible to miss.
		out.Error("WARNING: %v", applyErr)
		return applyErr
	}
	if result.PartialFailure() {
		return errPartialFailure
	}
	return nil
}

// confirm prompts on stdout and reads a y/N answer from stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
