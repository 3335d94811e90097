package tourguide

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

// Frontmatter represents the YAML frontmatter at the top of a page.
type Frontmatter struct {
	Title string           `yaml:"title"`
	Tour  *TourFrontmatter `yaml:"tour,omitempty"`

	// stepLines maps each tour.steps entry to its 1-indexed file line.
	stepLines []int
}

// TourFrontmatter is the `tour:` block of a page.
type TourFrontmatter struct {
	AutoStart      bool             `yaml:"auto_start"`
	InitialStep    int              `yaml:"initial_step"`
	HighlightClass string           `yaml:"highlight_class"`
	Steps          []StepDescriptor `yaml:"steps"`
}

// StepLine returns the source line of the i-th step entry, or 1 if unknown.
func (fm *Frontmatter) StepLine(i int) int {
	if i >= 0 && i < len(fm.stepLines) {
		return fm.stepLines[i]
	}
	return 1
}

// pageMarkdown renders host page bodies. Pages are authored by the site
// owner, so raw HTML sections and {#id} attributes are allowed.
var pageMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithAttribute(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// stepMarkdown renders tooltip content; raw HTML is escaped.
var stepMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ParseMarkdown splits frontmatter from the body and renders the body.
func ParseMarkdown(content []byte) (*Frontmatter, string, error) {
	frontmatter, remaining, err := extractFrontmatter(content)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	var htmlBuf bytes.Buffer
	if err := pageMarkdown.Convert(remaining, &htmlBuf); err != nil {
		return nil, "", fmt.Errorf("failed to render HTML: %w", err)
	}

	return frontmatter, htmlBuf.String(), nil
}

// extractFrontmatter extracts YAML frontmatter from the beginning of content.
// Returns the parsed frontmatter and the remaining content.
func extractFrontmatter(content []byte) (*Frontmatter, []byte, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return &Frontmatter{}, content, nil
	}

	endIdx := bytes.Index(content[4:], []byte("\n---\n"))
	if endIdx == -1 {
		return nil, nil, fmt.Errorf("unclosed frontmatter")
	}

	yamlContent := content[4 : 4+endIdx]
	remaining := content[4+endIdx+5:]

	var doc yaml.Node
	if err := yaml.Unmarshal(yamlContent, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	fm := &Frontmatter{}
	if len(doc.Content) == 0 {
		return fm, remaining, nil
	}
	if err := doc.Decode(fm); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Frontmatter YAML starts on line 2 of the file.
	for _, item := range stepNodes(doc.Content[0]) {
		fm.stepLines = append(fm.stepLines, item.Line+1)
	}

	return fm, remaining, nil
}

// stepNodes returns the sequence items under tour.steps.
func stepNodes(root *yaml.Node) []*yaml.Node {
	tour := mappingValue(root, "tour")
	steps := mappingValue(tour, "steps")
	if steps == nil || steps.Kind != yaml.SequenceNode {
		return nil
	}
	return steps.Content
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// RenderStepContent converts step markdown to tooltip HTML.
func RenderStepContent(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := stepMarkdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render step content: %w", err)
	}
	return template.HTML(buf.String()), nil
}
