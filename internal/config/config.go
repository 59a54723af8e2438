// Package config loads rename job files. A job file captures the same
// inputs the command line takes, so repeatable jobs can be checked in
// and replayed.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"renamix/internal/plan"
)

// Job describes one rename invocation.
type Job struct {
	Directory     string `yaml:"directory"`
	Glob          string `yaml:"glob"`
	Regex         string `yaml:"regex"`
	Template      string `yaml:"template"`
	Mode          string `yaml:"mode"`          // "pattern" (default) or "increment"
	Start         int    `yaml:"start"`         // First counter value in increment mode
	Recursive     bool   `yaml:"recursive"`     // Include subdirectories
	DryRun        bool   `yaml:"dryRun"`        // Preview only
	KeepExtension bool   `yaml:"keepExtension"` // Re-append the source extension
	Yes           bool   `yaml:"yes"`           // Skip the confirmation prompt
}

// ValidationError aggregates all validation failures of a job file.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("job validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Load reads and validates a YAML job file.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file %s: %w", path, err)
	}

	job := &Job{}
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(job); err != nil {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}

	job.ApplyDefaults()
	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// ApplyDefaults fills unset fields with their defaults.
func (j *Job) ApplyDefaults() {
	if j.Glob == "" {
		j.Glob = "*"
	}
	if j.Mode == "" {
		j.Mode = string(plan.ModePattern)
	}
	if j.Start == 0 {
		j.Start = 1
	}
}

// Validate checks the job for semantic correctness and returns a
// ValidationError listing every problem found.
func (j *Job) Validate() error {
	var errs []string

	if j.Directory == "" {
		errs = append(errs, "directory is required")
	}
	if j.Regex == "" {
		errs = append(errs, "regex is required")
	}
	if j.Template == "" {
		errs = append(errs, "template is required")
	}
	switch plan.Mode(j.Mode) {
	case plan.ModePattern, plan.ModeIncrement:
	default:
		errs = append(errs, fmt.Sprintf("mode must be %q or %q, got %q", plan.ModePattern, plan.ModeIncrement, j.Mode))
	}
	if j.Start < 0 {
		errs = append(errs, "start must not be negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// PlanOptions converts the job's settings into plan builder options.
func (j *Job) PlanOptions() plan.Options {
	return plan.Options{
		Mode:          plan.Mode(j.Mode),
		Start:         j.Start,
		Recursive:     j.Recursive,
		KeepExtension: j.KeepExtension,
	}
}
