package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/livetemplate/tourguide"
	"github.com/livetemplate/tourguide/internal/config"
)

// project is a loaded site directory: its config and landing page.
type project struct {
	dir    string
	config *config.Config
	page   *tourguide.Page
}

// loadProject resolves dir, loads its config (or configPath when given)
// and parses the landing page.
func loadProject(dir, configPath string) (*project, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", dir)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromDir(absDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	page, err := tourguide.ParseFile(cfg.PagePath(absDir))
	if err != nil {
		return nil, err
	}
	cfg.Tour.ApplyTour(&page.Tour)

	return &project{dir: absDir, config: cfg, page: page}, nil
}

// positionalDir returns the first non-flag argument, or ".".
func positionalDir(args []string, valueFlags map[string]bool) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if valueFlags[arg] {
			i++
			continue
		}
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
	}
	return "."
}
