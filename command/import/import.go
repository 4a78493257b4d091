package cmdimport

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"issue-stats/connectors/config"
	ccsv "issue-stats/connectors/csv"
	cg "issue-stats/connectors/github"
	gh "issue-stats/domain/github"
	"issue-stats/domain/issues"

	lo "github.com/samber/lo"
)

// Run executes the import subcommand: fetch the issues of a GitHub repository and
// write them as the issue CSV export consumed by plot.
//
// Usage:
//
//	issue-stats import [-owner o] [-repo r] [-since 2020-03-01T00:00:00Z] [-out ./issues.csv]
func Run(args []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	owner := fs.String("owner", cfg.GitHub.Owner, "GitHub repository owner (defaults to github.owner from config)")
	repo := fs.String("repo", cfg.GitHub.Repo, "GitHub repository name (defaults to github.repo from config)")
	since := fs.String("since", "", "Only issues updated since this ISO8601/RFC3339 time (optional)")
	out := fs.String("out", cfg.Data.Issues, "CSV file to write")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *owner == "" || *repo == "" {
		slog.Error("import.validation.error", "reason", "missing owner or repo")
		return fmt.Errorf("missing required -owner/-repo or CONFIG_PATH with github.owner and github.repo")
	}
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		slog.Error("import.validation.error", "reason", "missing GITHUB_TOKEN")
		return fmt.Errorf("missing GITHUB_TOKEN")
	}

	slog.Info("import.start", "owner", *owner, "repo", *repo, "since", *since)
	ctx := context.Background()
	ghc := cg.NewWithToken(ctx, token)
	list, err := ghc.ListAllIssues(ctx, *owner, *repo, *since)
	if err != nil {
		slog.Error("phase.issues.fetch.error", "owner", *owner, "repo", *repo, "error", err)
		return fmt.Errorf("list issues of %s/%s: %w", *owner, *repo, err)
	}

	rows := ToIssues(list, cfg.Regions)
	if err := ccsv.WriteIssues(*out, rows); err != nil {
		slog.Error("phase.csv.write.error", "error", err)
		return fmt.Errorf("write %s: %w", *out, err)
	}
	slog.Info("import.done", "issues", len(rows), "out", *out)
	return nil
}

// ToIssues converts GitHub issues into export rows. The first label naming a known
// region (case-insensitive) becomes the region; region labels are dropped from the label set.
func ToIssues(list []gh.Issue, regions []string) []issues.Issue {
	known := lo.SliceToMap(regions, func(r string) (string, string) { return strings.ToLower(strings.TrimSpace(r)), r })
	return lo.Map(list, func(is gh.Issue, _ int) issues.Issue {
		row := issues.Issue{
			ID:        strconv.Itoa(is.Number),
			CreatedAt: is.CreatedAt,
			UpdatedAt: is.UpdatedAt,
			URL:       is.HTMLURL,
			Labels:    []string{},
		}
		for _, name := range is.LabelNames() {
			if region, ok := known[strings.ToLower(strings.TrimSpace(name))]; ok {
				if row.Region == "" {
					row.Region = region
				}
				continue
			}
			row.Labels = append(row.Labels, name)
		}
		return row
	})
}
