package world

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	ErrInvalidConfig = errors.New("invalid world config")
	ErrBodyNotFound  = errors.New("body not found")
	ErrEngineRunning = errors.New("engine already running")
)

// Order selects how pairwise corrections inside one tick are applied.
type Order int

const (
	// OrderSequential applies each pair's correction immediately, so later pairs
	// in the same tick see already displaced positions.
	OrderSequential Order = iota
	// OrderSnapshot computes every pair from the same positions and applies the
	// summed correction per body at the end of the tick.
	OrderSnapshot
)

func (o Order) String() string {
	switch o {
	case OrderSequential:
		return "sequential"
	case OrderSnapshot:
		return "snapshot"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "sequential", "":
		return OrderSequential, nil
	case "snapshot":
		return OrderSnapshot, nil
	default:
		return 0, fmt.Errorf("%w: unknown order %q", ErrInvalidConfig, s)
	}
}

// FreeMode decides what happens when neither body of an overlapping pair is anchored.
type FreeMode int

const (
	// FreeSplit moves both bodies apart by half the MTV each.
	FreeSplit FreeMode = iota
	// FreePushFirst moves the first body of the pair by the whole MTV.
	FreePushFirst
	// FreeIgnore leaves free pairs overlapping.
	FreeIgnore
)

func (m FreeMode) String() string {
	switch m {
	case FreeSplit:
		return "split"
	case FreePushFirst:
		return "push-first"
	case FreeIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("free(%d)", int(m))
	}
}

func ParseFreeMode(s string) (FreeMode, error) {
	switch strings.ToLower(s) {
	case "split", "":
		return FreeSplit, nil
	case "push-first":
		return FreePushFirst, nil
	case "ignore":
		return FreeIgnore, nil
	default:
		return 0, fmt.Errorf("%w: unknown free mode %q", ErrInvalidConfig, s)
	}
}

// SignRule picks the direction a pushed body moves. The default is
// SignByProjection; the center-based rule is opt-in (-sign-rule centers or
// sign_rule: centers in a scene).
type SignRule int

const (
	// SignByProjection trusts the MTV orientation, which always separates,
	// including polygons whose position is off their centroid.
	SignByProjection SignRule = iota
	// SignByCenters negates the push when
	// dot(center(free)-center(anchor), push) < 0.
	SignByCenters
)

func (r SignRule) String() string {
	switch r {
	case SignByProjection:
		return "projection"
	case SignByCenters:
		return "centers"
	default:
		return fmt.Sprintf("sign(%d)", int(r))
	}
}

func ParseSignRule(s string) (SignRule, error) {
	switch strings.ToLower(s) {
	case "projection", "":
		return SignByProjection, nil
	case "centers":
		return SignByCenters, nil
	default:
		return 0, fmt.Errorf("%w: unknown sign rule %q", ErrInvalidConfig, s)
	}
}

type Config struct {
	Order    Order
	FreeMode FreeMode
	SignRule SignRule
	// MinOverlap is the overlap a contact must exceed to count and be resolved.
	MinOverlap float64
	// Workers bounds the parallel narrow phase in snapshot order.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Order:      OrderSequential,
		FreeMode:   FreeSplit,
		SignRule:   SignByProjection,
		MinOverlap: 0.1,
		Workers:    runtime.NumCPU(),
	}
}

func (c Config) Validate() error {
	if c.MinOverlap < 0 {
		return fmt.Errorf("%w: min overlap cannot be negative", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}
	if c.Order != OrderSequential && c.Order != OrderSnapshot {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.Order)
	}
	if c.FreeMode < FreeSplit || c.FreeMode > FreeIgnore {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.FreeMode)
	}
	if c.SignRule != SignByProjection && c.SignRule != SignByCenters {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.SignRule)
	}
	return nil
}
