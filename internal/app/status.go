package app

import "fmt"

// statusInfo is the live state shown above the parameter listing.
type statusInfo struct {
	time             float64
	steps            uint64
	coffee, cup, air float64
	min, max         float64
	paused, done     bool
	stepsPerTick     int
}

func statusLines(s statusInfo) []string {
	state := "running"
	switch {
	case s.done:
		state = "finished"
	case s.paused:
		state = "paused"
	}
	return []string{
		fmt.Sprintf("t = %g s  (%d steps)", s.time, s.steps),
		fmt.Sprintf("coffee %.2f K", s.coffee),
		fmt.Sprintf("cup    %.2f K", s.cup),
		fmt.Sprintf("air    %.2f K", s.air),
		fmt.Sprintf("range  %.2f..%.2f K", s.min, s.max),
		fmt.Sprintf("%s  x%d", state, s.stepsPerTick),
	}
}
