package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/1siamBot/td-engine/engine/enemy"
	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/systems"
)

var ErrInvalidConfig = errors.New("game: invalid config")

// Config aggregates everything a game is built from
type Config struct {
	Level    maplib.Level       `json:"level"`
	Enemies  enemy.Config       `json:"enemies"`
	Towers   systems.TowerStats `json:"towers"`
	Scenario systems.Scenario   `json:"scenario"`

	// PlaySpeed scales simulation time, 1 to 10
	PlaySpeed float64 `json:"play_speed"`
	TickRate  float64 `json:"tick_rate"`
	Seed      int64   `json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Level:     maplib.DefaultLevel(),
		Enemies:   enemy.DefaultConfig(),
		Towers:    systems.DefaultTowerStats(),
		Scenario:  systems.DefaultScenario(),
		PlaySpeed: 1,
		TickRate:  30,
		Seed:      1,
	}
}

func (c Config) Validate() error {
	if err := c.Level.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Enemies.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Towers.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Scenario.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.PlaySpeed < 1 || c.PlaySpeed > 10 {
		return fmt.Errorf("%w: play speed %v outside 1..10", ErrInvalidConfig, c.PlaySpeed)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate must be positive", ErrInvalidConfig)
	}
	return nil
}

// SaveJSON saves the config to a JSON file
func (c Config) SaveJSON(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParseConfig decodes JSON on top of the defaults and validates the result
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig loads a config from a JSON file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}
