package geom

// Direction is one of the four compass directions, in clockwise order.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
	DirectionCount
)

// DirectionChange classifies the turn between two consecutive directions
type DirectionChange uint8

const (
	ChangeNone DirectionChange = iota
	ChangeTurnRight
	ChangeTurnLeft
	ChangeTurnAround
)

var halfVectors = [DirectionCount]Vec2{
	{0, 0.5},
	{0.5, 0},
	{0, -0.5},
	{-0.5, 0},
}

var dirOffsets = [DirectionCount][2]int{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
}

// HalfVector points half a tile in the direction
func (d Direction) HalfVector() Vec2 { return halfVectors[d] }

// Offset returns the grid step for the direction
func (d Direction) Offset() (dx, dy int) { return dirOffsets[d][0], dirOffsets[d][1] }

// Angle is the compass heading in degrees
func (d Direction) Angle() float64 { return float64(d) * 90 }

func (d Direction) Opposite() Direction { return (d + 2) % DirectionCount }

// ChangeTo classifies turning from d to next. A quarter turn clockwise is a
// right turn.
func (d Direction) ChangeTo(next Direction) DirectionChange {
	switch (next + DirectionCount - d) % DirectionCount {
	case 0:
		return ChangeNone
	case 1:
		return ChangeTurnRight
	case 3:
		return ChangeTurnLeft
	default:
		return ChangeTurnAround
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "invalid"
}

func (c DirectionChange) String() string {
	switch c {
	case ChangeNone:
		return "none"
	case ChangeTurnRight:
		return "turn-right"
	case ChangeTurnLeft:
		return "turn-left"
	case ChangeTurnAround:
		return "turn-around"
	}
	return "invalid"
}
