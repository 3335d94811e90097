package tourguide

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseFile parses a markdown landing page and its tour table.
func ParseFile(path string) (*Page, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Get absolute path for better error messages
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	page, err := parse(content, filepath.Base(path), absPath)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// ParseString parses page content held in memory.
func ParseString(content string) (*Page, error) {
	return parse([]byte(content), "inline", "inline")
}

func parse(content []byte, id, sourceFile string) (*Page, error) {
	fm, staticHTML, err := ParseMarkdown(content)
	if err != nil {
		return nil, NewParseError(sourceFile, 1, fmt.Sprintf("Failed to parse markdown: %v", err))
	}

	page := New(id)
	page.Title = fm.Title
	page.SourceFile = sourceFile
	page.StaticHTML = staticHTML
	page.MergeFromFrontmatter(fm)

	if err := page.validateSteps(fm); err != nil {
		return nil, err
	}

	return page, nil
}

// MergeFromFrontmatter applies the frontmatter tour block to the page.
// Frontmatter values take precedence over any existing values.
func (p *Page) MergeFromFrontmatter(fm *Frontmatter) {
	if fm.Tour == nil {
		return
	}
	p.Tour.AutoStart = fm.Tour.AutoStart
	p.Tour.InitialStep = fm.Tour.InitialStep
	if fm.Tour.HighlightClass != "" {
		p.Tour.HighlightClass = fm.Tour.HighlightClass
	}
	if len(fm.Tour.Steps) > 0 {
		p.Steps = append([]StepDescriptor(nil), fm.Tour.Steps...)
	}
}

// validateSteps checks the step table and points at the offending entry.
func (p *Page) validateSteps(fm *Frontmatter) error {
	seen := make(map[int]int, len(p.Steps))

	for i := range p.Steps {
		step := &p.Steps[i]
		line := fm.StepLine(i)

		pos, err := ParsePosition(string(step.Position))
		if err != nil {
			return NewParseError(p.SourceFile, line, fmt.Sprintf("Step %d has an unknown position %q", step.StepIndex, step.Position)).
				WithHint("Valid positions are: top, bottom, left, right, center")
		}
		step.Position = pos

		if strings.TrimSpace(step.Target) == "" {
			return NewParseError(p.SourceFile, line, fmt.Sprintf("Step %d has no target selector", step.StepIndex)).
				WithHint(`Add target: "#element-id" pointing at the element to highlight`)
		}

		if step.StepIndex < 0 {
			return NewParseError(p.SourceFile, line, fmt.Sprintf("Step index %d is negative", step.StepIndex)).
				WithHint("Number steps from 0")
		}

		if prev, dup := seen[step.StepIndex]; dup {
			return NewParseError(p.SourceFile, line, fmt.Sprintf("Duplicate step index %d", step.StepIndex)).
				WithRelated(fmt.Sprintf("Step %d first defined at line %d", step.StepIndex, fm.StepLine(prev)))
		}
		seen[step.StepIndex] = i
	}

	return nil
}

// Registry builds the step registry for the page.
func (p *Page) Registry() (*Registry, error) {
	return NewRegistry(p.Steps)
}
