package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sourcescout/pkg/pipeline"
	"github.com/matzehuels/sourcescout/pkg/pool"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Run Summary
// =============================================================================

// printRunSummary prints the totals of a run followed by one line per
// component with a verified page.
func printRunSummary(r *pipeline.Report) {
	downloaded, failed := r.Totals()

	fmt.Println(StyleTitle.Render("Run " + r.RunID))
	printKeyValue("Scanned", StyleNumber.Render(fmt.Sprint(r.Scanned)))
	printKeyValue("Available", StyleNumber.Render(fmt.Sprint(len(r.Available))))
	printKeyValue("Abnormal", StyleNumber.Render(fmt.Sprint(len(r.Abnormal))))
	printKeyValue("Downloaded", StyleSuccess.Render(fmt.Sprint(downloaded)))
	printKeyValue("Failed", StyleNumber.Render(fmt.Sprint(failed)))
	printKeyValue("Duration", r.Duration().Round(time.Millisecond).String())

	for _, c := range r.Components {
		switch {
		case c.Error != "":
			printError("%s %s", c.Component, StyleDim.Render(c.Error))
		case c.Abnormal:
			printWarning("%s: no archives on %s", c.Component, c.SiteURL)
		case c.Failed > 0:
			printWarning("%s: %d of %d downloads failed", c.Component, c.Failed, c.Entries)
		default:
			stats := fmt.Sprintf("%d entries · %d downloaded", c.Entries, c.Downloaded)
			printSuccess("%s %s", StyleHighlight.Render(c.Component), StyleDim.Render(stats))
		}
	}
}

// =============================================================================
// Pool Display
// =============================================================================

// printPool prints the ranked entries of p, newest first.
func printPool(p *pool.Pool, abnormal bool) {
	if abnormal {
		printWarning("%s: no source archives found", p.ComponentName)
		return
	}
	fmt.Println(StyleTitle.Render(p.ComponentName) + " " + StyleDim.Render(fmt.Sprintf("(%d entries)", p.Len())))
	for _, e := range p.Entries {
		fmt.Println("  " + StyleValue.Render(e.CanonicalName) + " " + StyleDim.Render(iconArrow) + " " + StyleLink.Render(e.URL))
	}
}
