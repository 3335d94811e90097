//go:build !ci

package tourguide_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	dockerImage           = "chromedp/headless-shell:stable"
	chromeContainerPrefix = "chrome-e2e-tourguide-"
)

// localChromes are browser binaries tried when Docker is not available.
var localChromes = []string{"headless-shell", "chromium", "chromium-browser", "google-chrome"}

// ChromeContext is a browser context for E2E tests.
type ChromeContext struct {
	Context context.Context
	Docker  bool // Chrome runs in a container and reaches the host by URL rewrite
}

// SetupChrome returns a chromedp context backed by a local Chrome binary,
// falling back to the chromedp/headless-shell Docker image. The test is
// skipped when neither is available.
func SetupChrome(t *testing.T, timeout time.Duration) *ChromeContext {
	t.Helper()

	if path := findLocalChrome(); path != "" {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(path),
			chromedp.NoSandbox,
		)
		allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
		ctx, ctxCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(t.Logf))
		ctx, timeoutCancel := context.WithTimeout(ctx, timeout)
		t.Cleanup(func() {
			timeoutCancel()
			ctxCancel()
			allocCancel()
		})
		return &ChromeContext{Context: ctx}
	}

	return setupDockerChrome(t, timeout)
}

func findLocalChrome() string {
	for _, name := range localChromes {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func setupDockerChrome(t *testing.T, timeout time.Duration) *ChromeContext {
	t.Helper()

	if _, err := exec.Command("docker", "version").CombinedOutput(); err != nil {
		t.Skip("Neither Chrome nor Docker available, skipping E2E test")
	}

	chromePort, err := getFreePort()
	if err != nil {
		t.Fatalf("Failed to allocate Chrome port: %v", err)
	}
	if err := startDockerChrome(t, chromePort); err != nil {
		t.Fatalf("Failed to start Docker Chrome: %v", err)
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.Background(), fmt.Sprintf("http://localhost:%d", chromePort))
	ctx, ctxCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(t.Logf))
	ctx, timeoutCancel := context.WithTimeout(ctx, timeout)

	t.Cleanup(func() {
		timeoutCancel()
		ctxCancel()
		allocCancel()
		removeContainer(t, containerName(chromePort))
	})

	return &ChromeContext{Context: ctx, Docker: true}
}

// URL converts a test server URL into one the browser can reach.
// On Linux the container shares the host network; elsewhere it needs
// host.docker.internal.
func (c *ChromeContext) URL(serverURL string) string {
	if !c.Docker {
		return serverURL
	}
	host := "localhost"
	if runtime.GOOS != "linux" {
		host = "host.docker.internal"
	}
	url := strings.Replace(serverURL, "127.0.0.1", host, 1)
	return strings.Replace(url, "[::1]", host, 1)
}

func containerName(port int) string {
	return fmt.Sprintf("%s%d", chromeContainerPrefix, port)
}

// getFreePort asks the kernel for a free open port that is ready to use.
func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// startDockerChrome starts the headless-shell container and waits for its
// debugging endpoint.
func startDockerChrome(t *testing.T, debugPort int) error {
	t.Helper()

	name := containerName(debugPort)
	exec.Command("docker", "rm", "-f", name).CombinedOutput() // may not exist

	if _, err := exec.Command("docker", "image", "inspect", dockerImage).CombinedOutput(); err != nil {
		t.Log("Pulling chromedp/headless-shell Docker image...")
		pullCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if output, err := exec.CommandContext(pullCtx, "docker", "pull", dockerImage).CombinedOutput(); err != nil {
			t.Skipf("Failed to pull %s: %v\n%s", dockerImage, err, output)
		}
	}

	args := []string{"run", "-d", "--rm", "--memory", "512m", "--name", name}
	if runtime.GOOS == "linux" {
		args = append(args, "--network", "host", dockerImage, fmt.Sprintf("--remote-debugging-port=%d", debugPort))
	} else {
		args = append(args, "-p", fmt.Sprintf("%d:9222", debugPort), dockerImage)
	}
	if _, err := exec.Command("docker", args...).Output(); err != nil {
		return fmt.Errorf("failed to start Chrome Docker container: %w", err)
	}

	versionURL := fmt.Sprintf("http://localhost:%d/json/version", debugPort)
	client := &http.Client{Timeout: 2 * time.Second}
	var lastErr error
	for i := 0; i < 120; i++ {
		resp, err := client.Get(versionURL)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		lastErr = err
		time.Sleep(500 * time.Millisecond)
	}

	if output, err := exec.Command("docker", "logs", "--tail", "50", name).CombinedOutput(); err == nil {
		t.Logf("Chrome container logs:\n%s", output)
	}
	removeContainer(t, name)
	return fmt.Errorf("Chrome failed to start within 60 seconds: %w", lastErr)
}

func removeContainer(t *testing.T, name string) {
	t.Helper()
	if output, err := exec.Command("docker", "rm", "-f", name).CombinedOutput(); err != nil {
		if !strings.Contains(string(output), "No such container") {
			t.Logf("Warning: Failed to remove Docker container: %v (output: %s)", err, output)
		}
	}
}
