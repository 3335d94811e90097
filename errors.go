package tourguide

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ParseError is an authoring error in a page or step table, with enough
// context to fix it.
type ParseError struct {
	File    string // Source file path
	Line    int    // Line number (1-indexed)
	Message string
	Hint    string // Helpful suggestion
	Related string // e.g. "Step 2 first defined at line 12"
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Format()
}

// Format returns the error with surrounding source lines.
func (e *ParseError) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "❌ Error in %s\n\n", e.File)
	fmt.Fprintf(&b, "Line %d: %s\n", e.Line, e.Message)

	if context := e.codeContext(); context != "" {
		b.WriteString(context)
	}

	if e.Hint != "" {
		fmt.Fprintf(&b, "\n💡 Tip: %s\n", e.Hint)
	}

	if e.Related != "" {
		fmt.Fprintf(&b, "\n🔗 %s\n", e.Related)
	}

	return b.String()
}

// codeContext shows two lines either side of the error line.
func (e *ParseError) codeContext() string {
	if e.File == "" {
		return ""
	}

	file, err := os.Open(e.File)
	if err != nil {
		return ""
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if e.Line < 1 || e.Line > len(lines) {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")

	start := max(1, e.Line-2)
	end := min(len(lines), e.Line+2)
	for i := start; i <= end; i++ {
		marker := " "
		if i == e.Line {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %2d | %s\n", marker, i, lines[i-1])
	}

	return b.String()
}

// NewParseError creates a new ParseError.
func NewParseError(file string, line int, message string) *ParseError {
	return &ParseError{
		File:    file,
		Line:    line,
		Message: message,
	}
}

// WithHint adds a helpful hint to the error.
func (e *ParseError) WithHint(hint string) *ParseError {
	e.Hint = hint
	return e
}

// WithRelated adds related information to the error.
func (e *ParseError) WithRelated(related string) *ParseError {
	e.Related = related
	return e
}
