package enemy

import (
	"math"

	"github.com/1siamBot/td-engine/engine/geom"
	"github.com/1siamBot/td-engine/engine/maplib"
)

// State is the motion span an enemy is currently traversing
type State uint8

const (
	StateIntro State = iota
	StateForward
	StateTurnRight
	StateTurnLeft
	StateTurnAround
	StateOutro
)

func (s State) String() string {
	switch s {
	case StateIntro:
		return "intro"
	case StateForward:
		return "forward"
	case StateTurnRight:
		return "turn-right"
	case StateTurnLeft:
		return "turn-left"
	case StateTurnAround:
		return "turn-around"
	case StateOutro:
		return "outro"
	}
	return "unknown"
}

// Outcome records why an enemy left the board
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeArrived
	OutcomeExhausted
	OutcomeKilled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeArrived:
		return "arrived"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeKilled:
		return "killed"
	}
	return "unknown"
}

// Enemy follows the next-hop chain of the path field. Each tile transition
// is one span of progress 0..1; the progress factor converts seconds into
// span progress so that travel speed stays constant along curves.
type Enemy struct {
	origin *Factory
	graph  *maplib.Graph

	kind   Kind
	scale  float64
	speed  float64
	offset float64
	health float64

	tileFrom, tileTo maplib.TileID
	posFrom, posTo   geom.Vec2
	angleFrom        float64
	angleTo          float64
	dir              geom.Direction
	state            State

	progress float64
	factor   float64

	// root transform and the lane model's sideways shift from it
	position geom.Vec2
	heading  float64
	lateral  float64

	outcome Outcome
}

func (e *Enemy) initialize(k Kind, scale, speed, offset, health float64) {
	*e = Enemy{
		origin: e.origin,
		kind:   k,
		scale:  scale,
		speed:  speed,
		offset: offset,
		health: health,
	}
}

func (e *Enemy) Kind() Kind                { return e.kind }
func (e *Enemy) Scale() float64            { return e.scale }
func (e *Enemy) Speed() float64            { return e.speed }
func (e *Enemy) LaneOffset() float64       { return e.offset }
func (e *Enemy) Health() float64           { return e.health }
func (e *Enemy) State() State              { return e.state }
func (e *Enemy) Progress() float64         { return e.progress }
func (e *Enemy) ProgressFactor() float64   { return e.factor }
func (e *Enemy) Outcome() Outcome          { return e.outcome }
func (e *Enemy) TileFrom() maplib.TileID   { return e.tileFrom }
func (e *Enemy) TileTo() maplib.TileID     { return e.tileTo }
func (e *Enemy) Position() geom.Vec2       { return e.position }
func (e *Enemy) Heading() float64          { return e.heading }
func (e *Enemy) Direction() geom.Direction { return e.dir }
func (e *Enemy) ColliderRadius() float64   { return 0.125 * e.scale }
func (e *Enemy) Alive() bool               { return e.health > 0 && e.outcome == OutcomeNone }
func (e *Enemy) OriginFactory() *Factory   { return e.origin }

// ModelPosition is the lane-adjusted position of the body
func (e *Enemy) ModelPosition() geom.Vec2 {
	return e.position.Add(geom.Right(e.heading).Scale(e.lateral))
}

// ApplyDamage lowers health. Negative damage panics.
func (e *Enemy) ApplyDamage(damage float64) {
	if damage < 0 {
		panic("enemy: negative damage applied")
	}
	e.health -= damage
}

// SpawnOn places the enemy on tile id and starts its intro. The tile must
// have a next hop.
func (e *Enemy) SpawnOn(g *maplib.Graph, id maplib.TileID) {
	t := g.Tile(id)
	if t.NextOnPath() == maplib.NoTile {
		panic("enemy: spawn tile has nowhere to go")
	}
	e.graph = g
	e.tileFrom = id
	e.tileTo = t.NextOnPath()
	e.progress = 0
	e.outcome = OutcomeNone
	e.prepareIntro()
}

// GameUpdate advances the enemy by dt seconds. It returns false once the
// enemy is done, with Outcome telling why; the owner then recycles it.
func (e *Enemy) GameUpdate(dt float64) bool {
	if e.health <= 0 {
		e.outcome = OutcomeKilled
		return false
	}

	e.progress += dt * e.factor
	for e.progress >= 1 {
		if e.tileTo == maplib.NoTile {
			e.outcome = OutcomeExhausted
			if e.graph.Tile(e.tileFrom).Content().Type == maplib.ContentDestination {
				e.outcome = OutcomeArrived
			}
			return false
		}
		e.progress = (e.progress - 1) / e.factor
		e.prepareNext()
		e.progress *= e.factor
	}

	switch e.state {
	case StateTurnRight, StateTurnLeft, StateTurnAround:
		e.heading = geom.LerpAngle(e.angleFrom, e.angleTo, e.progress)
	default:
		e.position = e.posFrom.Lerp(e.posTo, e.progress)
	}
	return true
}

// Recycle returns the enemy to its factory
func (e *Enemy) Recycle() {
	e.origin.Reclaim(e)
}

func (e *Enemy) prepareIntro() {
	from := e.graph.Tile(e.tileFrom)
	e.posFrom = from.Center()
	e.posTo = from.ExitPoint()
	e.dir = from.PathDirection()
	e.angleFrom = e.dir.Angle()
	e.angleTo = e.angleFrom
	e.state = StateIntro
	e.position = e.posFrom
	e.heading = e.angleTo
	e.lateral = e.offset
	e.factor = 2 * e.speed
}

func (e *Enemy) prepareOutro() {
	e.posTo = e.graph.Tile(e.tileFrom).Center()
	e.angleTo = e.dir.Angle()
	e.state = StateOutro
	e.heading = e.angleTo
	e.lateral = e.offset
	e.factor = 2 * e.speed
}

func (e *Enemy) prepareNext() {
	e.tileFrom = e.tileTo
	from := e.graph.Tile(e.tileFrom)
	e.tileTo = from.NextOnPath()
	e.posFrom = e.posTo
	if e.tileTo == maplib.NoTile {
		e.prepareOutro()
		return
	}

	e.posTo = from.ExitPoint()
	change := e.dir.ChangeTo(from.PathDirection())
	e.dir = from.PathDirection()
	e.angleFrom = e.angleTo

	switch change {
	case geom.ChangeNone:
		e.prepareForward()
	case geom.ChangeTurnRight:
		e.prepareTurnRight()
	case geom.ChangeTurnLeft:
		e.prepareTurnLeft()
	default:
		e.prepareTurnAround()
	}
}

func (e *Enemy) prepareForward() {
	e.angleTo = e.dir.Angle()
	e.state = StateForward
	e.heading = e.angleTo
	e.lateral = e.offset
	e.factor = e.speed
}

func (e *Enemy) prepareTurnRight() {
	e.angleTo = e.angleFrom + 90
	e.state = StateTurnRight
	e.lateral = e.offset - 0.5
	e.position = e.posFrom.Add(e.dir.HalfVector())
	e.factor = e.speed / (math.Pi * 0.5 * (0.5 - e.offset))
}

func (e *Enemy) prepareTurnLeft() {
	e.angleTo = e.angleFrom - 90
	e.state = StateTurnLeft
	e.lateral = e.offset + 0.5
	e.position = e.posFrom.Add(e.dir.HalfVector())
	e.factor = e.speed / (math.Pi * 0.5 * (0.5 + e.offset))
}

func (e *Enemy) prepareTurnAround() {
	if e.offset < 0 {
		e.angleTo = e.angleFrom + 180
	} else {
		e.angleTo = e.angleFrom - 180
	}
	e.state = StateTurnAround
	e.lateral = e.offset
	e.position = e.posFrom
	e.factor = e.speed / (math.Pi * math.Max(math.Abs(e.offset), 0.2))
}
