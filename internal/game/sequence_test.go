package game

import (
	"slices"
	"testing"
	"time"
)

// pending reports whether a sequence with name is still waiting.
func (s *scheduler) pending(name string) bool {
	for _, seq := range s.seqs {
		if seq.name == name && !seq.done() {
			return true
		}
	}
	return false
}

func TestSchedulerRunsStepsAtResumeTimes(t *testing.T) {
	var s scheduler
	var got []string
	record := func(name string) func() { return func() { got = append(got, name) } }

	s.start("seq", nil,
		step{0, record("a")},
		step{time.Second, record("b")},
		step{500 * time.Millisecond, record("c")},
	)
	if !slices.Equal(got, []string{"a"}) {
		t.Fatalf("after start got %v, want [a]", got)
	}

	s.advance(900 * time.Millisecond)
	s.poll()
	if len(got) != 1 {
		t.Fatalf("b ran early: %v", got)
	}

	s.advance(100 * time.Millisecond)
	s.poll()
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("got %v, want [a b]", got)
	}

	// a long frame catches up on every due step
	s.advance(3 * time.Second)
	s.poll()
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("got %v, want [a b c]", got)
	}
	if s.pending("seq") {
		t.Fatal("finished sequence still pending")
	}
}

func TestSchedulerAbandonsIrrelevantSequence(t *testing.T) {
	var s scheduler
	alive := true
	ran := 0

	s.start("jump", func() bool { return alive },
		step{0, func() { ran++ }},
		step{time.Second, func() { ran++ }},
	)
	alive = false
	s.advance(2 * time.Second)
	s.poll()

	if ran != 1 {
		t.Fatalf("ran %d steps, want 1", ran)
	}
	if s.pending("jump") {
		t.Fatal("abandoned sequence still pending")
	}
}

func TestSchedulerStartFromStep(t *testing.T) {
	var s scheduler
	inner := false
	s.start("outer", nil,
		step{time.Second, func() {
			s.start("inner", nil, step{time.Second, func() { inner = true }})
		}},
	)
	s.advance(time.Second)
	s.poll()
	if !s.pending("inner") {
		t.Fatal("nested sequence not registered")
	}
	s.advance(time.Second)
	s.poll()
	if !inner {
		t.Fatal("nested sequence did not run")
	}
}
