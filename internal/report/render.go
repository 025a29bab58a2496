package report

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// ════════════════════════════════════════════════════════════════════
// PNG Exporter — HTML → PNG via wkhtmltoimage / chromium headless
// ════════════════════════════════════════════════════════════════════

// ImageEngine specifies which engine to use for HTML→PNG conversion.
type ImageEngine string

const (
	EngineWKHTML   ImageEngine = "wkhtmltoimage"
	EngineChromium ImageEngine = "chromium"
	EngineNone     ImageEngine = "none"
)

// ErrNoEngine is returned when no screenshot engine is installed. The
// caller degrades to HTML-only output and warns.
var ErrNoEngine = errors.New("no image engine found (install wkhtmltoimage or chromium)")

// chromiumNames are the binary names probed for a headless browser.
var chromiumNames = []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"}

// ImageConfig holds configuration for PNG export.
type ImageConfig struct {
	Engine     ImageEngine // default: auto-detect
	Width      int         // viewport width (default: 1200)
	Height     int         // viewport height (default: 800)
	Scale      int         // device scale factor (default: 2)
	OutputPath string      // required: output PNG file path
}

// DefaultImageConfig returns sensible defaults for PNG export.
func DefaultImageConfig() ImageConfig {
	return ImageConfig{
		Width:  1200,
		Height: 800,
		Scale:  2,
	}
}

// DetectImageEngine checks which screenshot engine is available.
func DetectImageEngine() ImageEngine {
	if _, err := exec.LookPath("wkhtmltoimage"); err == nil {
		return EngineWKHTML
	}
	for _, name := range chromiumNames {
		if _, err := exec.LookPath(name); err == nil {
			return EngineChromium
		}
	}
	return EngineNone
}

// IsImageSupported returns true if a screenshot engine is available.
func IsImageSupported() bool {
	return DetectImageEngine() != EngineNone
}

// GeneratePNG converts an HTML string to a PNG file. It writes the HTML
// to a temp file, runs the conversion engine, and writes the image to
// cfg.OutputPath. Returns ErrNoEngine when nothing suitable is installed.
func GeneratePNG(html string, cfg ImageConfig) error {
	if cfg.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if cfg.Width <= 0 {
		cfg.Width = 1200
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}

	engine := cfg.Engine
	if engine == "" || engine == EngineNone {
		engine = DetectImageEngine()
	}

	switch engine {
	case EngineWKHTML:
		return renderWithWKHTML(html, cfg)
	case EngineChromium:
		return renderWithChromium(html, cfg)
	case EngineNone:
		return ErrNoEngine
	default:
		return fmt.Errorf("unsupported image engine: %s", engine)
	}
}

func renderWithWKHTML(html string, cfg ImageConfig) error {
	tmpFile, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile)

	args := []string{
		"--width", strconv.Itoa(cfg.Width),
		"--height", strconv.Itoa(cfg.Height * cfg.Scale),
		"--zoom", strconv.Itoa(cfg.Scale),
		"--encoding", "UTF-8",
		"--enable-local-file-access",
		"--quiet",
		tmpFile,
		cfg.OutputPath,
	}

	cmd := exec.Command("wkhtmltoimage", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("wkhtmltoimage failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func renderWithChromium(html string, cfg ImageConfig) error {
	tmpFile, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile)

	var chromiumBin string
	for _, name := range chromiumNames {
		if path, err := exec.LookPath(name); err == nil {
			chromiumBin = path
			break
		}
	}
	if chromiumBin == "" {
		return fmt.Errorf("chromium not found in PATH")
	}

	absOutput, err := filepath.Abs(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}

	args := []string{
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--hide-scrollbars",
		fmt.Sprintf("--window-size=%d,%d", cfg.Width, cfg.Height),
		fmt.Sprintf("--force-device-scale-factor=%d", cfg.Scale),
		"--screenshot=" + absOutput,
		"file://" + tmpFile,
	}

	cmd := exec.Command(chromiumBin, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("chromium screenshot failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func writeTempHTML(html string) (string, error) {
	tmpFile := filepath.Join(os.TempDir(), "curvewatch_figure.html")
	if err := os.WriteFile(tmpFile, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("writing temp HTML: %w", err)
	}
	return tmpFile, nil
}
