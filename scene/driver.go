package scene

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/0x5844/collision-2d/world"
)

// Script replays DragConfig entries as input: press at From, drag every tick
// through To, release on the tick after.
type Script struct {
	drags []DragConfig
	held  map[int]heldBody
}

type heldBody struct {
	id          uuid.UUID
	wasAnchored bool
}

func NewScript(drags []DragConfig) *Script {
	return &Script{drags: drags, held: make(map[int]heldBody)}
}

func (s *Script) BeforeStep(ctx context.Context, tick int64, w *world.World) error {
	for i, d := range s.drags {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch {
		case tick == d.From:
			b, err := w.BodyByName(d.Body)
			if err != nil {
				return s.unknown(d, err)
			}
			s.held[i] = heldBody{id: b.ID, wasAnchored: b.Anchored}
			if err := w.SetAnchored(b.ID, true); err != nil {
				return err
			}
		case tick == d.To+1:
			h, ok := s.held[i]
			if !ok {
				continue
			}
			delete(s.held, i)
			if err := w.SetAnchored(h.id, h.wasAnchored); err != nil {
				return s.unknown(d, err)
			}
			continue
		}

		if tick < d.From || tick > d.To {
			continue
		}
		h, ok := s.held[i]
		if !ok {
			continue
		}
		if err := w.Drag(h.id, d.Delta); err != nil {
			return s.unknown(d, err)
		}
	}
	return nil
}

// Active reports whether any drag is still pending or held at tick.
func (s *Script) Active(tick int64) bool {
	for _, d := range s.drags {
		if tick <= d.To+1 {
			return true
		}
	}
	return false
}

func (s *Script) unknown(d DragConfig, err error) error {
	if errors.Is(err, world.ErrBodyNotFound) {
		return fmt.Errorf("%w: %q", ErrUnknownBody, d.Body)
	}
	return err
}
