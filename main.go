package main

import (
	"fmt"
	"log/slog"
	"os"

	cmdimport "issue-stats/command/import"
	cmdplot "issue-stats/command/plot"
	cmdweb "issue-stats/command/web"
)

// Issue statistics reporter.
// Usage:
//   issue-stats                 (same as: issue-stats plot)
//   issue-stats plot [-data ./issues.csv] [-out ./plot/]
//   issue-stats import -owner <o> -repo <r> [-since <ts>] [-out ./issues.csv]
//   issue-stats web [-addr :8080]
// Notes:
// - plot reads the CSV export, builds the cumulative, per-category and per-region
//   charts and writes plot.json (keyed under "statplot"), plot.html and summary.md.
// - import needs GITHUB_TOKEN; CONFIG_PATH points to a YAML config (default ./config.yml).

const usage = "usage: issue-stats [plot [-data <csv>] [-out <dir>] | import [-owner <o>] [-repo <r>] [-since <ts>] [-out <csv>] | web [-addr :8080]]\nENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml)"

func main() {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	args := os.Args
	if len(args) == 1 {
		run(cmdplot.Run, nil)
		return
	}
	rest := append([]string{}, args[2:]...)
	switch args[1] {
	case "plot":
		run(cmdplot.Run, rest)
	case "import":
		run(cmdimport.Run, rest)
	case "web":
		run(cmdweb.Run, rest)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func run(cmd func([]string) error, args []string) {
	if err := cmd(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
