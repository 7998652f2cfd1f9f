package systems

import (
	"errors"
	"fmt"

	"github.com/1siamBot/td-engine/engine/enemy"
)

var ErrInvalidScenario = errors.New("systems: invalid scenario")

// Spawner puts a new enemy of the given kind on the board
type Spawner interface {
	SpawnEnemy(kind enemy.Kind)
}

// SpawnSequence spawns Amount enemies of one kind, one every Cooldown
// seconds
type SpawnSequence struct {
	Kind     enemy.Kind `json:"kind"`
	Amount   int        `json:"amount"`
	Cooldown float64    `json:"cooldown"`
}

// Wave runs its sequences one after another
type Wave struct {
	Sequences []SpawnSequence `json:"sequences"`
}

// Scenario runs its waves in order, Cycles times. Zero cycles repeats
// forever. Every new cycle runs CycleSpeedUp faster than the previous one.
type Scenario struct {
	Waves        []Wave  `json:"waves"`
	Cycles       int     `json:"cycles"`
	CycleSpeedUp float64 `json:"cycle_speed_up"`
}

func DefaultScenario() Scenario {
	return Scenario{
		Waves: []Wave{
			{Sequences: []SpawnSequence{
				{Kind: enemy.KindMedium, Amount: 5, Cooldown: 2},
			}},
			{Sequences: []SpawnSequence{
				{Kind: enemy.KindSmall, Amount: 10, Cooldown: 0.5},
				{Kind: enemy.KindMedium, Amount: 5, Cooldown: 1.5},
			}},
			{Sequences: []SpawnSequence{
				{Kind: enemy.KindLarge, Amount: 3, Cooldown: 4},
				{Kind: enemy.KindSmall, Amount: 15, Cooldown: 0.3},
			}},
		},
		Cycles:       2,
		CycleSpeedUp: 0.5,
	}
}

func (s Scenario) Validate() error {
	if len(s.Waves) == 0 {
		return fmt.Errorf("%w: no waves", ErrInvalidScenario)
	}
	if s.Cycles < 0 || s.CycleSpeedUp < 0 {
		return fmt.Errorf("%w: negative cycles or speed-up", ErrInvalidScenario)
	}
	for i, w := range s.Waves {
		if len(w.Sequences) == 0 {
			return fmt.Errorf("%w: wave %d has no sequences", ErrInvalidScenario, i)
		}
		for j, seq := range w.Sequences {
			switch {
			case seq.Kind >= enemy.KindCount:
				return fmt.Errorf("%w: wave %d sequence %d: unknown enemy kind", ErrInvalidScenario, i, j)
			case seq.Amount < 1:
				return fmt.Errorf("%w: wave %d sequence %d: amount below 1", ErrInvalidScenario, i, j)
			case seq.Cooldown <= 0:
				return fmt.Errorf("%w: wave %d sequence %d: cooldown must be positive", ErrInvalidScenario, i, j)
			}
		}
	}
	return nil
}

// Total returns how many enemies one cycle spawns
func (s Scenario) Total() int {
	n := 0
	for _, w := range s.Waves {
		for _, seq := range w.Sequences {
			n += seq.Amount
		}
	}
	return n
}

type sequenceState struct {
	seq      *SpawnSequence
	count    int
	cooldown float64
}

func beginSequence(seq *SpawnSequence) sequenceState {
	return sequenceState{seq: seq, cooldown: seq.Cooldown}
}

// progress returns the unused time once the sequence is finished, or -1
// while it is still running
func (s *sequenceState) progress(dt float64, sp Spawner) float64 {
	s.cooldown += dt
	for s.cooldown >= s.seq.Cooldown {
		s.cooldown -= s.seq.Cooldown
		if s.count >= s.seq.Amount {
			return s.cooldown
		}
		s.count++
		sp.SpawnEnemy(s.seq.Kind)
	}
	return -1
}

type waveState struct {
	wave  *Wave
	index int
	seq   sequenceState
}

func beginWave(w *Wave) waveState {
	return waveState{wave: w, seq: beginSequence(&w.Sequences[0])}
}

func (w *waveState) progress(dt float64, sp Spawner) float64 {
	dt = w.seq.progress(dt, sp)
	for dt >= 0 {
		w.index++
		if w.index >= len(w.wave.Sequences) {
			return dt
		}
		w.seq = beginSequence(&w.wave.Sequences[w.index])
		dt = w.seq.progress(dt, sp)
	}
	return -1
}

// ScenarioState is one run through a scenario
type ScenarioState struct {
	scenario  *Scenario
	cycle     int
	index     int
	timeScale float64
	wave      waveState
	done      bool
}

// Begin starts a run. The scenario must be valid.
func (s *Scenario) Begin() *ScenarioState {
	if len(s.Waves) == 0 {
		panic("systems: scenario without waves")
	}
	return &ScenarioState{
		scenario:  s,
		timeScale: 1,
		wave:      beginWave(&s.Waves[0]),
	}
}

// Progress advances the run by dt and reports whether it has more to spawn
func (st *ScenarioState) Progress(dt float64, sp Spawner) bool {
	if st.done {
		return false
	}
	s := st.scenario
	dt = st.wave.progress(st.timeScale*dt, sp)
	for dt >= 0 {
		st.index++
		if st.index >= len(s.Waves) {
			st.cycle++
			if s.Cycles > 0 && st.cycle >= s.Cycles {
				st.done = true
				return false
			}
			st.index = 0
			st.timeScale += s.CycleSpeedUp
		}
		st.wave = beginWave(&s.Waves[st.index])
		dt = st.wave.progress(dt, sp)
	}
	return true
}

func (st *ScenarioState) Done() bool         { return st.done }
func (st *ScenarioState) Wave() int          { return st.index }
func (st *ScenarioState) Cycle() int         { return st.cycle }
func (st *ScenarioState) TimeScale() float64 { return st.timeScale }
