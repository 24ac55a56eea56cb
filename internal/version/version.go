package version

import "github.com/fatih/color"

// Build metadata for the headerlint CLI. Zero values describe a local
// dev build; release builds stamp real values via -ldflags.

// colored paints the three version components so the banner reads at a
// glance. Цвет вшит прямо в строку, снимается он только глобальным
// color.NoColor.
func colored(major, minor, patch string) string {
	paint := func(attr color.Attribute, s string) string {
		return color.New(attr, color.Bold).Sprint(s)
	}
	return paint(color.FgYellow, major) + "." + paint(color.FgGreen, minor) + "." + paint(color.FgBlue, patch)
}

var (
	// Version is the semantic version reported by the version command.
	Version = colored("0", "1", "0") + "-dev"

	// GitCommit, GitMessage and BuildDate come from the release
	// pipeline; empty means nothing was stamped in.
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = ""
)
