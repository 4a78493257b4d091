package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"issue-stats/domain/issues"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "./config.yml"

// Config represents the structure of config.yml used by the tool.
type Config struct {
	Data struct {
		Issues  string `yaml:"issues"`
		PlotDir string `yaml:"plot_dir"`
	} `yaml:"data"`
	Plot struct {
		RootID         string   `yaml:"root_id"`
		Title          string   `yaml:"title"`
		ExcludedLabels []string `yaml:"excluded_labels"`
	} `yaml:"plot"`
	// Regions are the known region names; issue labels matching one become the issue region on import.
	Regions []string `yaml:"regions"`

	GitHub struct {
		Owner string `yaml:"owner"`
		Repo  string `yaml:"repo"`
	} `yaml:"github"`
	Web struct {
		Addr string `yaml:"addr"`
	} `yaml:"web"`
}

// DefaultRegions are the twenty Italian regions.
var DefaultRegions = []string{
	"Abruzzo", "Basilicata", "Calabria", "Campania", "Emilia-Romagna", "Friuli Venezia Giulia",
	"Lazio", "Liguria", "Lombardia", "Marche", "Molise", "Piemonte", "Puglia", "Sardegna",
	"Sicilia", "Toscana", "Trentino-Alto Adige", "Umbria", "Valle d'Aosta", "Veneto",
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.Data.Issues = "./issues.csv"
	c.Data.PlotDir = "./plot/"
	c.Plot.RootID = "statplot"
	c.Plot.Title = "Issue statistics"
	c.Plot.ExcludedLabels = append([]string{}, issues.DefaultExcludedLabels...)
	c.Regions = append([]string{}, DefaultRegions...)
	c.Web.Addr = ":8080"
	return c
}

// Load parses the YAML configuration file at path on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	slog.Info(fmt.Sprintf("Loaded config: %s", path))
	return c, nil
}

// Resolve loads the file named by CONFIG_PATH (default ./config.yml).
// A missing file yields the defaults.
func Resolve() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config.default", "path", path)
		return Default(), nil
	}
	return c, err
}

func parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}
