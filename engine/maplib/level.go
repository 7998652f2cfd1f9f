package maplib

import (
	"errors"
	"fmt"
)

var ErrInvalidLevel = errors.New("maplib: invalid level")

// Level describes the board geometry and placement limits
type Level struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	Destination Point `json:"destination"`
	SpawnPoint  Point `json:"spawn_point"`

	MaxWalls           int `json:"max_walls"`
	MaxLightningTowers int `json:"max_lightning_towers"`
	MaxMortarTowers    int `json:"max_mortar_towers"`

	// StartingHealth of 0 disables defeat
	StartingHealth int `json:"starting_health"`
}

// DefaultLevel returns an 11x11 board with the destination in the middle
func DefaultLevel() Level {
	return Level{
		Name:               "Default",
		Width:              11,
		Height:             11,
		Destination:        Point{5, 5},
		SpawnPoint:         Point{0, 0},
		MaxWalls:           10,
		MaxLightningTowers: 5,
		MaxMortarTowers:    5,
		StartingHealth:     10,
	}
}

// MaxTowers returns the placement limit for a tower kind
func (l Level) MaxTowers(k TowerKind) int {
	switch k {
	case TowerLightning:
		return l.MaxLightningTowers
	case TowerMortar:
		return l.MaxMortarTowers
	}
	return 0
}

// InBounds checks if p lies on a board of the level's size
func (l Level) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < l.Width && p.Y < l.Height
}

// Validate rejects levels a board cannot be built from
func (l Level) Validate() error {
	if l.Width < 2 || l.Height < 2 {
		return fmt.Errorf("%w: size %dx%d below 2x2", ErrInvalidLevel, l.Width, l.Height)
	}
	if !l.InBounds(l.Destination) {
		return fmt.Errorf("%w: destination (%d,%d) off board", ErrInvalidLevel, l.Destination.X, l.Destination.Y)
	}
	if !l.InBounds(l.SpawnPoint) {
		return fmt.Errorf("%w: spawn point (%d,%d) off board", ErrInvalidLevel, l.SpawnPoint.X, l.SpawnPoint.Y)
	}
	if l.Destination == l.SpawnPoint {
		return fmt.Errorf("%w: destination and spawn point share a tile", ErrInvalidLevel)
	}
	if l.MaxWalls < 0 || l.MaxLightningTowers < 0 || l.MaxMortarTowers < 0 {
		return fmt.Errorf("%w: negative placement limit", ErrInvalidLevel)
	}
	if l.StartingHealth < 0 {
		return fmt.Errorf("%w: negative starting health", ErrInvalidLevel)
	}
	return nil
}
