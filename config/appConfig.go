package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MatchingConfig carries the thresholds and the explicit base-channel policy
// for the match finders. BaseChannel must be one of Channels; when empty the
// first entry of Channels is used.
type MatchingConfig struct {
	PairThreshold  float64 `yaml:"pair_threshold"`
	GroupThreshold float64 `yaml:"group_threshold"`
	BaseChannel    string  `yaml:"base_channel"`
}

// MergeConfig carries the explicit survivor-selection policy and the pacing of
// merge transactions. SurvivorPolicy is "lowest_id" or "prefer_channel"; the
// latter keeps the product whose match member is listed on PreferChannel and
// falls back to lowest id.
type MergeConfig struct {
	SurvivorPolicy string `yaml:"survivor_policy"`
	PreferChannel  string `yaml:"prefer_channel"`
	RatePerMinute  int    `yaml:"rate_per_minute"`
}

type AppConfig struct {
	// ChannelList is the canonical channel ordering. It decides the default
	// base channel for group matching and the scan order during merge.
	ChannelList  []string       `yaml:"channels"`
	Matching     MatchingConfig `yaml:"matching"`
	Merge        MergeConfig    `yaml:"merge"`
	ProgressPath string         `yaml:"progress_path"`
	MetricsAddr  string         `yaml:"metrics_addr"`
	Postgres     PostgresConfig `yaml:"postgres"`
}

func LoadConfig(filename string) (*AppConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	config := &AppConfig{}
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	if err := config.applyDefaults(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *AppConfig) applyDefaults() error {
	if len(c.ChannelList) < 2 {
		return fmt.Errorf("config: at least two channels required, got %d", len(c.ChannelList))
	}
	if c.Matching.PairThreshold == 0 {
		c.Matching.PairThreshold = 75
	}
	if c.Matching.GroupThreshold == 0 {
		c.Matching.GroupThreshold = c.Matching.PairThreshold
	}
	if c.Matching.BaseChannel == "" {
		c.Matching.BaseChannel = c.ChannelList[0]
	}
	if !c.hasChannel(c.Matching.BaseChannel) {
		return fmt.Errorf("config: base channel %q is not in channels", c.Matching.BaseChannel)
	}
	if c.Merge.SurvivorPolicy == "" {
		c.Merge.SurvivorPolicy = "lowest_id"
	}
	if c.Merge.SurvivorPolicy == "prefer_channel" && !c.hasChannel(c.Merge.PreferChannel) {
		return fmt.Errorf("config: prefer_channel %q is not in channels", c.Merge.PreferChannel)
	}
	if c.Merge.RatePerMinute == 0 {
		c.Merge.RatePerMinute = 120
	}
	if c.ProgressPath == "" {
		c.ProgressPath = "matching_progress.json"
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = ":9090"
	}
	return nil
}

func (c *AppConfig) hasChannel(name string) bool {
	for _, ch := range c.ChannelList {
		if ch == name {
			return true
		}
	}
	return false
}
