package command

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/1siamBot/td-engine/engine/board"
	"github.com/1siamBot/td-engine/engine/maplib"
)

var ErrBadCommand = errors.New("command: malformed command")

// CmdType identifies a placement command
type CmdType uint8

const (
	CmdToggleWall CmdType = iota
	CmdToggleTower
	CmdToggleDestination
	CmdToggleSpawnPoint
	CmdClearBoard
	cmdTypeCount
)

func (t CmdType) String() string {
	switch t {
	case CmdToggleWall:
		return "wall"
	case CmdToggleTower:
		return "tower"
	case CmdToggleDestination:
		return "destination"
	case CmdToggleSpawnPoint:
		return "spawn"
	case CmdClearBoard:
		return "clear"
	}
	return "unknown"
}

// Command is a deterministic board mutation applied at a tick boundary
type Command struct {
	Tick  uint64
	Type  CmdType
	X, Y  int32
	Tower maplib.TowerKind
}

func Wall(x, y int) Command        { return Command{Type: CmdToggleWall, X: int32(x), Y: int32(y)} }
func Destination(x, y int) Command { return Command{Type: CmdToggleDestination, X: int32(x), Y: int32(y)} }
func SpawnPoint(x, y int) Command  { return Command{Type: CmdToggleSpawnPoint, X: int32(x), Y: int32(y)} }
func Clear() Command               { return Command{Type: CmdClearBoard} }

func Tower(x, y int, k maplib.TowerKind) Command {
	return Command{Type: CmdToggleTower, X: int32(x), Y: int32(y), Tower: k}
}

// Point returns the tile the command targets
func (c Command) Point() maplib.Point {
	return maplib.Point{X: int(c.X), Y: int(c.Y)}
}

// Apply executes the command against b
func (c Command) Apply(b *board.Board) (board.Counters, error) {
	switch c.Type {
	case CmdToggleWall:
		return b.ToggleWall(c.Point())
	case CmdToggleTower:
		return b.ToggleTower(c.Point(), c.Tower)
	case CmdToggleDestination:
		return b.ToggleDestination(c.Point())
	case CmdToggleSpawnPoint:
		return b.ToggleSpawnPoint(c.Point())
	case CmdClearBoard:
		b.Clear()
		return b.Counters(), nil
	}
	return b.Counters(), fmt.Errorf("%w: type %d", ErrBadCommand, c.Type)
}

func (c Command) String() string {
	if c.Type == CmdToggleTower {
		return fmt.Sprintf("%d:%v(%d,%d,%v)", c.Tick, c.Type, c.X, c.Y, c.Tower)
	}
	return fmt.Sprintf("%d:%v(%d,%d)", c.Tick, c.Type, c.X, c.Y)
}

// wireCommand is the fixed-size little-endian record layout
type wireCommand struct {
	Tick  uint64
	Type  CmdType
	X, Y  int32
	Tower uint8
}

// Encode writes a command to binary
func (c *Command) Encode(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, wireCommand{
		Tick:  c.Tick,
		Type:  c.Type,
		X:     c.X,
		Y:     c.Y,
		Tower: uint8(c.Tower),
	})
}

// Decode reads a command from binary. A clean end of input yields io.EOF;
// a truncated record yields io.ErrUnexpectedEOF.
func (c *Command) Decode(r io.Reader) error {
	var wc wireCommand
	if err := binary.Read(r, binary.LittleEndian, &wc); err != nil {
		return err
	}
	if wc.Type >= cmdTypeCount {
		return fmt.Errorf("%w: type %d", ErrBadCommand, wc.Type)
	}
	if maplib.TowerKind(wc.Tower) >= maplib.TowerKindCount {
		return fmt.Errorf("%w: tower kind %d", ErrBadCommand, wc.Tower)
	}
	*c = Command{
		Tick:  wc.Tick,
		Type:  wc.Type,
		X:     wc.X,
		Y:     wc.Y,
		Tower: maplib.TowerKind(wc.Tower),
	}
	return nil
}
