// Package config holds thresholds, tool paths and database layout.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"btyper/internal/hits"
	"btyper/internal/taxonomy"
)

// EnvPrefix is the prefix of environment overrides, e.g. BTYPER_DB_DIR.
const EnvPrefix = "BTYPER"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Virulence database flavours.
const (
	VirulenceAA  = "aa"
	VirulenceNuc = "nuc"
)

// Config is the full run configuration.
type Config struct {
	// Tools
	FastANI     string `yaml:"fastani" envconfig:"FASTANI"`
	BlastBinDir string `yaml:"blast_bin_dir" envconfig:"BLAST_BIN_DIR"` // empty: rely on PATH
	Makeblastdb string `yaml:"makeblastdb" envconfig:"MAKEBLASTDB"`

	// Databases
	DBDir       string `yaml:"db_dir" envconfig:"DB_DIR"`
	VirulenceDB string `yaml:"virulence_db" envconfig:"VIRULENCE_DB"` // aa | nuc

	// Thresholds
	Virulence hits.Thresholds `yaml:"virulence" envconfig:"VIRULENCE"`
	Bt        BtConfig        `yaml:"bt" envconfig:"BT"`
	PanC      hits.Thresholds `yaml:"panc" envconfig:"PANC"`
	EValue    string          `yaml:"evalue" envconfig:"EVALUE"`

	// FragmentLength is the fastANI fragment size used by the
	// fragmentation check.
	FragmentLength int `yaml:"fragment_length" envconfig:"FRAGMENT_LENGTH"`

	Exemplars []taxonomy.Exemplar `yaml:"subspecies_exemplars" ignored:"true"`

	Retry Retry `yaml:"retry" envconfig:"RETRY"`
}

// BtConfig adds the overlap bound to the Bt thresholds.
type BtConfig struct {
	Identity float64 `yaml:"identity" envconfig:"IDENTITY"`
	Coverage float64 `yaml:"coverage" envconfig:"COVERAGE"`
	Overlap  float64 `yaml:"overlap" envconfig:"OVERLAP"`
}

// Thresholds returns the identity/coverage part.
func (b BtConfig) Thresholds() hits.Thresholds {
	return hits.Thresholds{Identity: b.Identity, Coverage: b.Coverage}
}

// Retry controls re-running a failed external tool.
type Retry struct {
	Attempts    int           `yaml:"attempts" envconfig:"ATTEMPTS"` // extra attempts after the first
	MaxInterval time.Duration `yaml:"max_interval" envconfig:"MAX_INTERVAL"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		FastANI:     "fastANI",
		Makeblastdb: "makeblastdb",
		DBDir:       "btyper_db",
		VirulenceDB: VirulenceAA,
		Virulence:   hits.Thresholds{Identity: 70, Coverage: 80},
		Bt:          BtConfig{Identity: 50, Coverage: 70, Overlap: 0.7},
		PanC:        hits.Thresholds{Identity: 99, Coverage: 80},
		EValue:      "1e-5",

		FragmentLength: 3000,

		Exemplars: []taxonomy.Exemplar{
			{Reference: "B_mosaicus_subsp_anthracis_Ames_GCF_000007845.fna", Label: "anthracis", Threshold: 99.9},
			{Reference: "B_mosaicus_subsp_cereus_AH187_GCF_000021225.fna", Label: "cereus", Threshold: 97.5},
		},

		Retry: Retry{Attempts: 0, MaxInterval: 30 * time.Second},
	}
}

// Load reads defaults, then the YAML file at path (skipped when path is
// empty), then BTYPER_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides sets every field whose BTYPER_* variable is present.
// Unset variables leave the field alone.
func (c *Config) applyEnvOverrides() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}


func percent(name string, v float64) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%w: %s must be in [0,100], got %g", ErrInvalid, name, v)
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"virulence.identity", c.Virulence.Identity},
		{"virulence.coverage", c.Virulence.Coverage},
		{"bt.identity", c.Bt.Identity},
		{"bt.coverage", c.Bt.Coverage},
		{"panc.identity", c.PanC.Identity},
		{"panc.coverage", c.PanC.Coverage},
	}
	for _, ch := range checks {
		if err := percent(ch.name, ch.v); err != nil {
			return err
		}
	}
	for _, ex := range c.Exemplars {
		if err := percent("subspecies_exemplars."+ex.Label, ex.Threshold); err != nil {
			return err
		}
		if ex.Reference == "" || ex.Label == "" {
			return fmt.Errorf("%w: subspecies exemplar needs reference and label", ErrInvalid)
		}
	}
	if c.Bt.Overlap < 0 || c.Bt.Overlap > 1 {
		return fmt.Errorf("%w: bt.overlap must be in [0,1], got %g", ErrInvalid, c.Bt.Overlap)
	}
	if c.VirulenceDB != VirulenceAA && c.VirulenceDB != VirulenceNuc {
		return fmt.Errorf("%w: virulence_db must be %q or %q, got %q", ErrInvalid, VirulenceAA, VirulenceNuc, c.VirulenceDB)
	}
	if c.FragmentLength <= 0 {
		return fmt.Errorf("%w: fragment_length must be positive", ErrInvalid)
	}
	if c.Retry.Attempts < 0 {
		return fmt.Errorf("%w: retry.attempts must be >= 0", ErrInvalid)
	}
	if c.EValue == "" {
		return fmt.Errorf("%w: evalue is empty", ErrInvalid)
	}
	return nil
}
