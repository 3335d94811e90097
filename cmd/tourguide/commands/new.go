package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/livetemplate/tourguide/internal/config"
)

// starterPage is the landing page scaffolded by `tourguide new`.
// [[.Var]] delimiters keep the scaffold variables apart from page content.
const starterPage = `---
title: "[[.Title]]"
tour:
  auto_start: false
  steps:
    - step: 0
      target: "#hero"
      title: "Welcome to [[.Title]]"
      content: "This short tour shows you around."
      position: bottom
    - step: 1
      target: "#features"
      title: "Features"
      content: "Describe what makes the product **useful**."
      position: right
    - step: 2
      target: "#get-started"
      title: "Get started"
      content: "Point visitors at the next thing to do."
      position: top
---

<section id="hero">

# [[.Title]]

One line about what the product does.

</section>

## Features {#features}

- First feature
- Second feature

<a id="get-started" href="#">Get started</a>
`

// NewCommand implements the new command.
// Usage: tourguide new <project-name>
func NewCommand(args []string) error {
	var name string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			name = arg
			break
		}
	}
	if name == "" {
		return fmt.Errorf("project name required\n\nUsage: tourguide new <project-name>")
	}

	if err := createProject(os.Stdout, name); err != nil {
		return err
	}
	return nil
}

// createProject scaffolds dir with a starter page and a default config.
func createProject(out io.Writer, dir string) error {
	if strings.Contains(filepath.Base(dir), " ") {
		return fmt.Errorf("project name cannot contain spaces")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		return fmt.Errorf("directory '%s' already exists", dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	title := toTitle(filepath.Base(dir))
	if err := writeStarterPage(dir, title); err != nil {
		os.RemoveAll(dir)
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Title = title
	if err := cfg.Save(filepath.Join(dir, config.FileName)); err != nil {
		os.RemoveAll(dir)
		return err
	}

	fmt.Fprintf(out, "✨ Created new tour project: %s\n\n", dir)
	fmt.Fprintf(out, "🚀 Next steps:\n")
	fmt.Fprintf(out, "   tourguide validate %s\n", dir)
	fmt.Fprintf(out, "   tourguide serve %s --watch\n", dir)
	return nil
}

func writeStarterPage(dir, title string) error {
	tmpl, err := template.New("index.md").Delims("[[", "]]").Parse(starterPage)
	if err != nil {
		return fmt.Errorf("failed to parse starter page: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "index.md"))
	if err != nil {
		return fmt.Errorf("failed to create index.md: %w", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, map[string]string{"Title": title}); err != nil {
		return fmt.Errorf("failed to write index.md: %w", err)
	}
	return nil
}

// toTitle converts a project name to a title case string
// Example: "my-product" -> "My Product"
func toTitle(name string) string {
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")

	words := strings.Fields(name)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
