package playback

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var ErrUnknownSpeed = errors.New("playback: unknown speed")

// State is the execution state of a playback session.
type State int

const (
	Idle State = iota
	Running
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Speed selects the delay between automatic ticks.
type Speed int

const (
	Slow Speed = iota
	Normal
	Fast
)

func (s Speed) String() string {
	switch s {
	case Slow:
		return "slow"
	case Normal:
		return "normal"
	case Fast:
		return "fast"
	default:
		return fmt.Sprintf("Speed(%d)", int(s))
	}
}

// Label is the display form used by presenters.
func (s Speed) Label() string {
	switch s {
	case Slow:
		return "Slow"
	case Fast:
		return "Fast"
	default:
		return "Normal"
	}
}

func (s Speed) valid() bool { return s >= Slow && s <= Fast }

// Faster and Slower step through the speeds without wrapping.
func (s Speed) Faster() Speed { return min(s+1, Fast) }
func (s Speed) Slower() Speed { return max(s-1, Slow) }

func ParseSpeed(s string) (Speed, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "slow":
		return Slow, nil
	case "normal", "":
		return Normal, nil
	case "fast":
		return Fast, nil
	default:
		return Normal, fmt.Errorf("%w: %q", ErrUnknownSpeed, s)
	}
}

// Delays maps each speed to a tick interval.
type Delays struct {
	Slow   time.Duration
	Normal time.Duration
	Fast   time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		Slow:   1000 * time.Millisecond,
		Normal: 500 * time.Millisecond,
		Fast:   150 * time.Millisecond,
	}
}

func (d Delays) For(s Speed) time.Duration {
	switch s {
	case Slow:
		return d.Slow
	case Fast:
		return d.Fast
	default:
		return d.Normal
	}
}

// StepForPercent maps a slider position in [0, 100] to a step index.
func StepForPercent(percent float64, length int) int {
	if length <= 0 {
		return -1
	}
	percent = math.Max(0, math.Min(100, percent))
	return int(math.Round(percent / 100 * float64(length-1)))
}
