package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Replay records and plays back placement commands
type Replay struct {
	Commands []Command
	byTick   map[uint64][]Command
	file     *os.File
	writer   *bufio.Writer
}

// NewReplayRecorder creates a replay file for recording
func NewReplayRecorder(path string) (*Replay, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create replay: %w", err)
	}
	r := NewRecorder(f)
	r.file = f
	return r, nil
}

// NewRecorder records into an arbitrary writer
func NewRecorder(w io.Writer) *Replay {
	return &Replay{writer: bufio.NewWriter(w)}
}

// Record writes a command to the replay
func (r *Replay) Record(cmd Command) error {
	r.Commands = append(r.Commands, cmd)
	r.byTick = nil
	return cmd.Encode(r.writer)
}

// Close flushes and closes the replay file
func (r *Replay) Close() error {
	var err error
	if r.writer != nil {
		err = r.writer.Flush()
	}
	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// LoadReplay loads a replay file
func LoadReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()
	return ReadReplay(f)
}

// ReadReplay decodes commands until the end of r
func ReadReplay(r io.Reader) (*Replay, error) {
	replay := &Replay{}
	reader := bufio.NewReader(r)
	for {
		var cmd Command
		err := cmd.Decode(reader)
		if errors.Is(err, io.EOF) {
			return replay, nil
		}
		if err != nil {
			return nil, fmt.Errorf("replay record %d: %w", len(replay.Commands), err)
		}
		replay.Commands = append(replay.Commands, cmd)
	}
}

// CommandsForTick returns all commands at a given tick during playback, in
// recorded order
func (r *Replay) CommandsForTick(tick uint64) []Command {
	if r.byTick == nil {
		r.byTick = make(map[uint64][]Command)
		for _, c := range r.Commands {
			r.byTick[c.Tick] = append(r.byTick[c.Tick], c)
		}
	}
	return r.byTick[tick]
}

// LastTick returns the highest tick with a command
func (r *Replay) LastTick() uint64 {
	var last uint64
	for _, c := range r.Commands {
		last = max(last, c.Tick)
	}
	return last
}
