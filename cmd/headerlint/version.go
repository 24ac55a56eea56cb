package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"headerlint/internal/version"
)

const versionTagline = "first lines first"

// versionFields выбирает, какие из опциональных полей сборки печатать.
type versionFields struct {
	hash    bool
	message bool
	date    bool
}

func (f versionFields) any() bool { return f.hash || f.message || f.date }

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Tagline    string `json:"tagline"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var (
	versionFormat   string
	versionFull     bool
	versionWithHash bool
	versionWithMsg  bool
	versionWithDate bool
)

func init() {
	flags := versionCmd.Flags()
	flags.StringVar(&versionFormat, "format", "pretty", "output format: pretty or json")
	flags.BoolVar(&versionWithHash, "hash", false, "print the git commit hash")
	flags.BoolVar(&versionWithMsg, "message", false, "print the git commit subject")
	flags.BoolVar(&versionWithDate, "date", false, "print the build timestamp")
	flags.BoolVar(&versionFull, "full", false, "print all recorded build metadata")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show headerlint build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := versionFields{
			hash:    versionWithHash || versionFull,
			message: versionWithMsg || versionFull,
			date:    versionWithDate || versionFull,
		}
		payload := buildVersionPayload(fields)

		switch strings.ToLower(versionFormat) {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		case "pretty":
			printVersion(cmd.OutOrStdout(), payload, fields)
			return nil
		}
		return fmt.Errorf("invalid --format value %q (expected pretty or json)", versionFormat)
	},
}

func buildVersionPayload(fields versionFields) versionPayload {
	p := versionPayload{
		Tool:    "headerlint",
		Version: strings.TrimSpace(version.Version),
		Tagline: versionTagline,
	}
	if p.Version == "" {
		p.Version = "dev"
	}
	if fields.hash {
		p.GitCommit = orUnknown(version.GitCommit)
	}
	if fields.message {
		p.GitMessage = orUnknown(version.GitMessage)
	}
	if fields.date {
		p.BuildDate = orUnknown(version.BuildDate)
	}
	return p
}

func printVersion(out io.Writer, p versionPayload, fields versionFields) {
	fmt.Fprintf(out, "headerlint %s (%s)\n", p.Version, p.Tagline)
	if fields.hash {
		fmt.Fprintf(out, "commit: %s\n", p.GitCommit)
	}
	if fields.message {
		fmt.Fprintf(out, "message: %s\n", p.GitMessage)
	}
	if fields.date {
		fmt.Fprintf(out, "built:  %s\n", p.BuildDate)
	}
	if !fields.any() {
		fmt.Fprintln(out, "add --hash, --message, --date or --full to see the rest")
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
