package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode        string `yaml:"mode"`
	PollSeconds int    `yaml:"poll_seconds"`
	Exchange    string `yaml:"exchange"`

	Journal struct {
		BaseURL        string `yaml:"base_url"`
		AuthTokenEnv   string `yaml:"auth_token_env"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"journal"`

	Quotes struct {
		Source string `yaml:"source"` // REST or TICKER
	} `yaml:"quotes"`

	BreakEven struct {
		BandPercent float64 `yaml:"band_percent"`
		Step        float64 `yaml:"step"`
	} `yaml:"breakeven"`

	Lots struct {
		Static  map[string]int `yaml:"static"`
		Refresh string         `yaml:"refresh"` // KITE, NSE or NONE
		NSEURL  string         `yaml:"nse_url"`
	} `yaml:"lots"`

	// Trades reconciled each poll cycle, and strategies whose open
	// F&O legs feed the break-even report.
	Trades     []string         `yaml:"trades"`
	Strategies []StrategyConfig `yaml:"strategies"`
}

// StrategyConfig names a strategy and the instrument whose last traded
// price anchors its break-even scan (typically the underlying spot).
type StrategyConfig struct {
	ID   string `yaml:"id"`
	Spot string `yaml:"spot"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Journal.BaseURL == "" {
		return errors.New("journal.base_url cannot be empty")
	}
	if c.Quotes.Source != "REST" && c.Quotes.Source != "TICKER" {
		return fmt.Errorf("quotes.source must be 'REST' or 'TICKER', got '%s'", c.Quotes.Source)
	}
	if c.Lots.Refresh != "KITE" && c.Lots.Refresh != "NSE" && c.Lots.Refresh != "NONE" {
		return fmt.Errorf("lots.refresh must be 'KITE', 'NSE' or 'NONE', got '%s'", c.Lots.Refresh)
	}
	if c.BreakEven.BandPercent < 0 || c.BreakEven.BandPercent > 100 {
		return fmt.Errorf("breakeven.band_percent must be between 0-100, got %.2f", c.BreakEven.BandPercent)
	}
	if c.BreakEven.Step < 0 {
		return fmt.Errorf("breakeven.step must not be negative, got %.4f", c.BreakEven.Step)
	}
	for _, s := range c.Strategies {
		if s.ID == "" {
			return errors.New("strategies entries must carry an id")
		}
		if s.Spot == "" {
			return fmt.Errorf("strategy '%s' needs a spot instrument for the break-even scan", s.ID)
		}
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.PollSeconds == 0 {
		c.PollSeconds = 30
	}
	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	if c.Quotes.Source == "" {
		c.Quotes.Source = "REST"
	}
	if c.Lots.Refresh == "" {
		c.Lots.Refresh = "NONE"
	}
	if c.BreakEven.BandPercent == 0 {
		c.BreakEven.BandPercent = 20
	}
	if c.BreakEven.Step == 0 {
		c.BreakEven.Step = 0.1
	}
	if c.Journal.TimeoutSeconds == 0 {
		c.Journal.TimeoutSeconds = 15
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
