package game

import "time"

// step waits, then acts. A zero wait runs in the same poll as the
// previous step.
type step struct {
	wait time.Duration
	do   func()
}

// sequence is a multi-frame script keyed by the time its next step is due.
// relevant is checked before every step; once it reports false the rest of
// the sequence is dropped.
type sequence struct {
	name     string
	steps    []step
	next     int
	resumeAt time.Duration
	relevant func() bool
}

func (s *sequence) done() bool {
	return s.next >= len(s.steps)
}

// scheduler polls timed sequences against a frame clock.
type scheduler struct {
	now  time.Duration
	seqs []*sequence
}

func (s *scheduler) advance(dt time.Duration) {
	if dt > 0 {
		s.now += dt
	}
}

// start registers a sequence and runs any steps that are already due.
func (s *scheduler) start(name string, relevant func() bool, steps ...step) {
	if len(steps) == 0 {
		return
	}
	seq := &sequence{
		name:     name,
		steps:    steps,
		resumeAt: s.now + steps[0].wait,
		relevant: relevant,
	}
	s.run(seq)
	if !seq.done() {
		s.seqs = append(s.seqs, seq)
	}
}

// poll runs every due step and forgets finished or abandoned sequences.
// Sequences started by a step are polled on the next call.
func (s *scheduler) poll() {
	pending := s.seqs
	s.seqs = nil
	for _, seq := range pending {
		s.run(seq)
		if !seq.done() {
			s.seqs = append(s.seqs, seq)
		}
	}
}

func (s *scheduler) run(seq *sequence) {
	for !seq.done() && s.now >= seq.resumeAt {
		if seq.relevant != nil && !seq.relevant() {
			seq.next = len(seq.steps)
			return
		}
		seq.steps[seq.next].do()
		seq.next++
		if !seq.done() {
			seq.resumeAt += seq.steps[seq.next].wait
		}
	}
}
