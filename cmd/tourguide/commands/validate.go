package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/livetemplate/tourguide"
	"github.com/livetemplate/tourguide/internal/dom"
)

// ValidateCommand implements the validate command.
func ValidateCommand(args []string) error {
	var configPath string
	for i := 0; i < len(args); i++ {
		if (args[i] == "--config" || args[i] == "-c") && i+1 < len(args) {
			configPath = args[i+1]
			i++
		}
	}
	dir := positionalDir(args, map[string]bool{"--config": true, "-c": true})

	return validate(os.Stdout, dir, configPath)
}

func validate(out io.Writer, dir, configPath string) error {
	proj, err := loadProject(dir, configPath)
	if err != nil {
		return err
	}
	page := proj.page

	fmt.Fprintf(out, "Validating %s\n\n", page.SourceFile)

	if len(page.Steps) == 0 {
		fmt.Fprintf(out, "⚠️  No tour steps defined\n")
		return nil
	}

	diags, err := walkTour(page)
	if err != nil {
		return err
	}

	failed := make(map[int]tourguide.Diagnostic)
	for _, d := range diags {
		if d.Kind == tourguide.DiagTargetNotFound || d.Kind == tourguide.DiagInvalidSelector {
			failed[d.StepIndex] = d
		}
	}

	count := len(page.Steps)
	for _, step := range page.Steps {
		switch d, bad := failed[step.StepIndex]; {
		case bad:
			fmt.Fprintf(out, "❌ Step %d %-24s %s: %s\n", step.StepIndex, quoted(step.Title), step.Target, d.Message)
		case step.StepIndex >= count:
			fmt.Fprintf(out, "⚠️  Step %d %-24s %s: index is past the step count (%d) and is never shown\n", step.StepIndex, quoted(step.Title), step.Target, count)
		default:
			fmt.Fprintf(out, "✅ Step %d %-24s %s\n", step.StepIndex, quoted(step.Title), step.Target)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d step target(s) not found on the page", len(failed), count)
	}

	fmt.Fprintf(out, "\nAll %d step targets found\n", count)
	return nil
}

// walkTour presents every step against the rendered page and returns
// the diagnostics the engine raised.
func walkTour(page *tourguide.Page) ([]tourguide.Diagnostic, error) {
	doc, err := dom.ParseString(page.StaticHTML)
	if err != nil {
		return nil, err
	}
	reg, err := page.Registry()
	if err != nil {
		return nil, err
	}

	rec := &tourguide.Recorder{}
	provider := tourguide.NewProvider(reg, doc,
		tourguide.WithDiagnostics(rec),
		tourguide.WithHighlightClass(page.Tour.HighlightClass),
	)
	orch := provider.Mount()
	defer provider.Unmount()

	steps := reg.Steps()
	last := steps[len(steps)-1].StepIndex
	for _, step := range steps {
		orch.Start(tourguide.AtStep(step.StepIndex).WithTotal(last + 1))
	}
	orch.End()

	return rec.Diagnostics(), nil
}

func quoted(s string) string {
	if s == "" {
		return "-"
	}
	return fmt.Sprintf("%q", s)
}
