package assets

import (
	"io/fs"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/livetemplate/tourguide"
)

func readClient(t *testing.T, name string) string {
	t.Helper()
	data, err := fs.ReadFile(ClientFS(), name)
	if err != nil {
		t.Fatalf("ReadFile(%s) failed: %v", name, err)
	}
	if len(data) == 0 {
		t.Fatalf("%s is empty", name)
	}
	return string(data)
}

func TestClientJS(t *testing.T) {
	js := readClient(t, ClientJS)
	if !strings.Contains(js, "data-tour-action") {
		t.Error("client should dispatch data-tour-action clicks")
	}
	if !strings.Contains(js, "highlightLayer") {
		t.Error("client should raise the target to the frame's highlight layer")
	}
}

func TestClientCSSLayersMatchConstants(t *testing.T) {
	css := readClient(t, ClientCSS)

	tests := []struct {
		selector string
		want     int
	}{
		{".tour-highlight", tourguide.LayerHighlight},
		{".tour-tooltip", tourguide.LayerTooltip},
		{".tour-controls", tourguide.LayerControls},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(tt.selector) + `\s*\{[^}]*z-index:\s*(\d+)`)
			m := re.FindStringSubmatch(css)
			if m == nil {
				t.Fatalf("tour.css has no z-index for %s", tt.selector)
			}
			got, _ := strconv.Atoi(m[1])
			if got != tt.want {
				t.Errorf("%s z-index = %d, want %d", tt.selector, got, tt.want)
			}
		})
	}
}

func TestClientFS(t *testing.T) {
	entries, err := fs.ReadDir(ClientFS(), ".")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	names := make(map[string]bool)
	for _, e := range entries {
		names[e.Name()] = true
	}
	if !names[ClientJS] || !names[ClientCSS] {
		t.Errorf("ClientFS entries = %v, want %s and %s", names, ClientJS, ClientCSS)
	}
}
