package command

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/1siamBot/td-engine/engine/board"
	"github.com/1siamBot/td-engine/engine/maplib"
)

func TestReplayRoundTripThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.replay")
	rec, err := NewReplayRecorder(path)
	if err != nil {
		t.Fatal(err)
	}
	cmds := []Command{Wall(1, 2), Tower(3, 4, maplib.TowerMortar), Destination(0, 0), Clear()}
	for i, c := range cmds {
		c.Tick = uint64(i / 2 * 10)
		if err := rec.Record(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	replay, err := LoadReplay(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(replay.Commands) != len(cmds) {
		t.Fatalf("loaded %d commands, want %d", len(replay.Commands), len(cmds))
	}
	at0 := replay.CommandsForTick(0)
	if len(at0) != 2 || at0[1].Type != CmdToggleTower || at0[1].Tower != maplib.TowerMortar {
		t.Fatalf("tick 0 commands = %v", at0)
	}
	if at10 := replay.CommandsForTick(10); len(at10) != 2 || at10[1].Type != CmdClearBoard {
		t.Fatalf("tick 10 commands = %v", at10)
	}
	if len(replay.CommandsForTick(5)) != 0 {
		t.Fatal("unexpected commands at tick 5")
	}
	if replay.LastTick() != 10 {
		t.Fatalf("last tick = %d", replay.LastTick())
	}
}

func TestReadReplayRejectsTruncatedRecord(t *testing.T) {
	var buf bytes.Buffer
	c := Wall(1, 1)
	if err := c.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if err := c.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()[:buf.Len()-3]
	_, err := ReadReplay(bytes.NewReader(data))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	var buf bytes.Buffer
	c := Command{Type: cmdTypeCount}
	if err := c.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	var out Command
	if err := out.Decode(&buf); !errors.Is(err, ErrBadCommand) {
		t.Fatalf("expected ErrBadCommand, got %v", err)
	}
}

func TestApplyDrivesBoard(t *testing.T) {
	b, err := board.New(maplib.DefaultLevel(), maplib.NewContentFactory())
	if err != nil {
		t.Fatal(err)
	}
	c, err := Wall(2, 2).Apply(b)
	if err != nil || c.Walls != 1 {
		t.Fatalf("wall: counters=%+v err=%v", c, err)
	}
	c, err = Tower(2, 2, maplib.TowerLightning).Apply(b)
	if err != nil || c.Walls != 0 || c.Towers[maplib.TowerLightning] != 1 {
		t.Fatalf("tower over wall: counters=%+v err=%v", c, err)
	}
	if _, err := Destination(5, 5).Apply(b); !errors.Is(err, board.ErrInvalidPlacement) {
		t.Fatalf("removing the only destination: %v", err)
	}
	if _, err := SpawnPoint(9, 9).Apply(b); err != nil {
		t.Fatal(err)
	}
	c, _ = Clear().Apply(b)
	if c.Towers[maplib.TowerLightning] != 0 || b.SpawnPointCount() != 1 {
		t.Fatalf("clear left counters=%+v spawns=%d", c, b.SpawnPointCount())
	}
	if _, err := (Command{Type: cmdTypeCount}).Apply(b); !errors.Is(err, ErrBadCommand) {
		t.Fatalf("unknown command: %v", err)
	}
}
