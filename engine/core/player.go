package core

// Player holds the health that arriving enemies drain
type Player struct {
	StartingHealth int
	Health         int
}

func NewPlayer(startingHealth int) *Player {
	if startingHealth < 0 {
		panic("core: negative starting health")
	}
	return &Player{StartingHealth: startingHealth, Health: startingHealth}
}

// Damage removes n health, never going below zero
func (p *Player) Damage(n int) {
	p.Health -= n
	if p.Health < 0 {
		p.Health = 0
	}
}

// Defeated reports whether health ran out. A starting health of zero means
// the player cannot lose.
func (p *Player) Defeated() bool {
	return p.StartingHealth > 0 && p.Health <= 0
}

// Reset restores starting health
func (p *Player) Reset() {
	p.Health = p.StartingHealth
}
