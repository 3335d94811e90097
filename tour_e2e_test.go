//go:build !ci

package tourguide_test

import (
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/livetemplate/tourguide"
	"github.com/livetemplate/tourguide/internal/config"
	"github.com/livetemplate/tourguide/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func highlighted(selector string) string {
	return `document.querySelector('` + selector + `').classList.contains('tour-highlight')`
}

func TestLandingTourE2E(t *testing.T) {
	dir := filepath.Join("examples", "landing")
	cfg, err := config.LoadFromDir(dir)
	require.NoError(t, err)

	srv := server.New(dir, cfg)
	require.NoError(t, srv.Load())

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	chrome := SetupChrome(t, 60*time.Second)
	ctx := chrome.Context

	var found bool
	var label string
	var highlights int
	var heroZ, featuresZ string

	// Start the tour from the launcher.
	err = chromedp.Run(ctx,
		chromedp.Navigate(chrome.URL(ts.URL)),
		chromedp.WaitVisible(".tour-launch", chromedp.ByQuery),
		chromedp.Click(".tour-launch", chromedp.ByQuery),
		chromedp.WaitVisible(".tour-tooltip--entering", chromedp.ByQuery),
		chromedp.Poll(highlighted("#hero"), &found, chromedp.WithPollingTimeout(5*time.Second)),
		chromedp.Text(".tour-progress-label", &label, chromedp.ByQuery),
	)
	require.NoError(t, err)
	assert.Equal(t, "1 of 4", label)

	// Next moves the spotlight.
	err = chromedp.Run(ctx,
		chromedp.Click(`[data-tour-action="next"]`, chromedp.ByQuery),
		chromedp.Poll(highlighted("#features"), &found, chromedp.WithPollingTimeout(5*time.Second)),
		chromedp.Evaluate(`document.querySelectorAll('.tour-highlight').length`, &highlights),
		chromedp.Evaluate(`document.querySelector('#hero').style.zIndex`, &heroZ),
		chromedp.Evaluate(`getComputedStyle(document.querySelector('#features')).zIndex`, &featuresZ),
		chromedp.Text(".tour-progress-label", &label, chromedp.ByQuery),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, highlights, "exactly one element is highlighted")
	assert.Equal(t, "2 of 4", label)
	assert.Equal(t, strconv.Itoa(tourguide.LayerHighlight), featuresZ)
	assert.Empty(t, heroZ, "the released target drops its layer")

	// Escape ends the tour and releases the highlight.
	err = chromedp.Run(ctx,
		chromedp.KeyEvent(kb.Escape),
		chromedp.Poll(`document.querySelectorAll('.tour-highlight').length === 0`, &found, chromedp.WithPollingTimeout(5*time.Second)),
		chromedp.WaitNotPresent(".tour-controls", chromedp.ByQuery),
		chromedp.WaitVisible(".tour-launch", chromedp.ByQuery),
	)
	require.NoError(t, err)
}

func TestFinishOnLastStepE2E(t *testing.T) {
	dir := filepath.Join("examples", "landing")
	cfg, err := config.LoadFromDir(dir)
	require.NoError(t, err)
	on, last := true, 3
	cfg.Tour.AutoStart = &on
	cfg.Tour.InitialStep = &last

	srv := server.New(dir, cfg)
	require.NoError(t, srv.Load())

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	chrome := SetupChrome(t, 60*time.Second)

	var found bool
	var nextButtons int
	err = chromedp.Run(chrome.Context,
		chromedp.Navigate(chrome.URL(ts.URL)),
		chromedp.Poll(highlighted("#get-started"), &found, chromedp.WithPollingTimeout(5*time.Second)),
		chromedp.Evaluate(`document.querySelectorAll('[data-tour-action="next"]').length`, &nextButtons),
		chromedp.Click(`[data-tour-action="end"]`, chromedp.ByQuery),
		chromedp.WaitNotPresent(".tour-controls", chromedp.ByQuery),
	)
	require.NoError(t, err)
	assert.Equal(t, 0, nextButtons, "the last step shows Finish instead of Next")
}
