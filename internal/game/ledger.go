package game

// HUD is the push-style view sent to the UI whenever the ledger changes.
type HUD struct {
	Score   int
	Lives   int
	Level   int // 1-based for display
	Jumps   int
	Message string
}

// Ledger tracks score, lives, hyperspace jumps, the level and the live
// asteroid count. It is owned by the Controller.
type Ledger struct {
	score     int
	lives     int
	jumps     int
	nextJump  int
	level     int
	waveSize  int
	remaining int
	gameOver  bool
	started   bool
	advanced  bool // level already advanced this frame
	message   string
	dirty     bool
}

// NewLedger creates a ledger before level 0 has started.
func NewLedger(lives, firstWave, firstJumpThreshold int) *Ledger {
	return &Ledger{
		lives:    max(lives, 0),
		waveSize: max(firstWave, 0),
		nextJump: firstJumpThreshold,
		gameOver: lives <= 0,
		dirty:    true,
	}
}

// Start begins level 0 and returns its wave size.
func (l *Ledger) Start() int {
	l.started = true
	l.level = 0
	l.dirty = true
	return l.waveSize
}

// ApplyScoreDelta adds to the score, then awards at most one jump if the
// score passed the threshold. Crossing several thresholds in one call still
// awards a single jump.
func (l *Ledger) ApplyScoreDelta(delta int) (jumpAwarded bool) {
	if delta <= 0 {
		return false
	}
	l.score += delta
	l.dirty = true
	if l.score > l.nextJump {
		l.jumps++
		l.nextJump *= 2
		return true
	}
	return false
}

// RecordEntityCreated counts a new live asteroid.
func (l *Ledger) RecordEntityCreated() {
	l.remaining++
}

// RecordEntityDestroyed counts an asteroid removal.
func (l *Ledger) RecordEntityDestroyed() {
	if l.remaining > 0 {
		l.remaining--
	}
}

// RecordPlayerDestroyed takes a life and reports whether the game is over.
// Once over, further calls change nothing.
func (l *Ledger) RecordPlayerDestroyed() (gameOver bool) {
	if l.gameOver {
		return true
	}
	l.lives--
	l.dirty = true
	if l.lives <= 0 {
		l.lives = 0
		l.gameOver = true
	}
	return l.gameOver
}

// ConsumeJump spends one hyperspace jump if any are available.
func (l *Ledger) ConsumeJump() bool {
	if l.jumps <= 0 {
		return false
	}
	l.jumps--
	l.dirty = true
	return true
}

// BeginFrame re-arms the once-per-frame level advance.
func (l *Ledger) BeginFrame() {
	l.advanced = false
}

// AdvanceLevelIfClear moves to the next level when no asteroids remain and
// the alien is not out. The next wave is one asteroid larger.
func (l *Ledger) AdvanceLevelIfClear(alienActive bool) bool {
	if !l.started || l.gameOver || l.advanced || alienActive || l.remaining > 0 {
		return false
	}
	l.advanced = true
	l.level++
	l.waveSize++
	l.dirty = true
	return true
}

// SetMessage sets the transient HUD message.
func (l *Ledger) SetMessage(msg string) {
	if l.message != msg {
		l.message = msg
		l.dirty = true
	}
}

func (l *Ledger) Score() int             { return l.score }
func (l *Ledger) Lives() int             { return l.lives }
func (l *Ledger) Jumps() int             { return l.jumps }
func (l *Ledger) NextJumpThreshold() int { return l.nextJump }
func (l *Ledger) Level() int             { return l.level }
func (l *Ledger) WaveSize() int          { return l.waveSize }
func (l *Ledger) Remaining() int         { return l.remaining }
func (l *Ledger) GameOver() bool         { return l.gameOver }

// HUD returns the current display values.
func (l *Ledger) HUD() HUD {
	return HUD{
		Score:   l.score,
		Lives:   l.lives,
		Level:   l.level + 1,
		Jumps:   l.jumps,
		Message: l.message,
	}
}

// TakeDirty reports whether anything visible changed since the last call.
func (l *Ledger) TakeDirty() bool {
	d := l.dirty
	l.dirty = false
	return d
}
