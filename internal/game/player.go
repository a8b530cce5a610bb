package game

import "time"

// PlayerState is the playback phase.
type PlayerState int

const (
	PlayerIdle     PlayerState = iota // no scenario yet
	PlayerArmed                       // positioned, not moving
	PlayerPlaying                     // advancing on ticks
	PlayerFinished                    // parked on the last route cell
)

func (s PlayerState) String() string {
	switch s {
	case PlayerArmed:
		return "armed"
	case PlayerPlaying:
		return "playing"
	case PlayerFinished:
		return "finished"
	default:
		return "idle"
	}
}

// PlaybackState is a read-only snapshot for the presentation layer.
type PlaybackState struct {
	State           PlayerState
	Index           int
	Cell            Cell
	WaypointReached bool
	Elapsed         time.Duration
	TotalSteps      int
}

// IsPlaying reports whether the agent is moving.
func (ps PlaybackState) IsPlaying() bool { return ps.State == PlayerPlaying }

// Step reports what a single Tick did.
type Step struct {
	Advanced        bool
	WaypointReached bool
	Finished        bool
	Index           int
}

// Player replays a Route one cell per interval. The interval drops from
// normal to fast once the waypoint is reached and never goes back.
type Player struct {
	state           PlayerState
	route           *Route
	index           int
	current         Cell
	waypointReached bool
	elapsed         time.Duration

	normal time.Duration
	fast   time.Duration
}

// NewPlayer creates an idle player. normal must be greater than fast.
func NewPlayer(normal, fast time.Duration) *Player {
	return &Player{normal: normal, fast: fast}
}

// Install puts a new route on the player and arms it at the first cell.
func (p *Player) Install(r *Route) {
	p.route = r
	p.state = PlayerArmed
	p.rewind()
}

// Park drops any route and arms the player on c.
func (p *Player) Park(c Cell) {
	p.route = nil
	p.state = PlayerArmed
	p.index = 0
	p.current = c
	p.waypointReached = false
	p.elapsed = 0
}

func (p *Player) rewind() {
	p.index = 0
	p.current = p.route.Cells[0]
	p.waypointReached = false
	p.elapsed = 0
}

// Start begins playback from Armed, or replays from the first cell when
// Finished. It returns false when there is no route to play.
func (p *Player) Start() bool {
	if p.route.Len() == 0 {
		return false
	}
	switch p.state {
	case PlayerArmed:
		p.elapsed = 0
	case PlayerFinished:
		p.rewind()
	default:
		return false
	}
	p.state = PlayerPlaying
	return true
}

func (p *Player) interval() time.Duration {
	if p.waypointReached {
		return p.fast
	}
	return p.normal
}

// Tick adds dt to the elapsed time and takes at most one step.
func (p *Player) Tick(dt time.Duration) Step {
	if p.state != PlayerPlaying {
		return Step{Index: p.index}
	}
	p.elapsed += dt
	if p.elapsed < p.interval() {
		return Step{Index: p.index}
	}
	p.elapsed = 0

	if p.index >= len(p.route.Cells)-1 {
		p.state = PlayerFinished
		return Step{Finished: true, Index: p.index}
	}
	p.index++
	p.current = p.route.Cells[p.index]
	st := Step{Advanced: true, Index: p.index}
	if !p.waypointReached && p.index == p.route.WaypointIndex {
		p.waypointReached = true
		st.WaypointReached = true
	}
	return st
}

// State returns the current phase.
func (p *Player) State() PlayerState { return p.state }

// Snapshot returns the playback state for display.
func (p *Player) Snapshot() PlaybackState {
	return PlaybackState{
		State:           p.state,
		Index:           p.index,
		Cell:            p.current,
		WaypointReached: p.waypointReached,
		Elapsed:         p.elapsed,
		TotalSteps:      p.route.Steps(),
	}
}
