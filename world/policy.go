package world

import (
	"github.com/0x5844/collision-2d/collision"
	"github.com/0x5844/collision-2d/geom"
)

// Policy turns an MTV into per-body translations. It never mutates bodies.
type Policy struct {
	FreeMode   FreeMode
	SignRule   SignRule
	MinOverlap float64
}

func (c Config) Policy() Policy {
	return Policy{FreeMode: c.FreeMode, SignRule: c.SignRule, MinOverlap: c.MinOverlap}
}

// Translations returns the moves for a and b given their MTV (oriented a to b).
// An anchored body never moves; when both are anchored nothing moves.
func (p Policy) Translations(a, b *Body, mtv *collision.MTV) (da, db geom.Vector2) {
	if mtv == nil || mtv.Overlap <= p.MinOverlap {
		return
	}
	v := mtv.Vector()

	switch {
	case a.Anchored && b.Anchored:
	case a.Anchored:
		db = p.away(a, b, v)
	case b.Anchored:
		da = p.away(b, a, v.Negate())
	default:
		switch p.FreeMode {
		case FreeSplit:
			half := p.away(a, b, v).Scale(0.5)
			db = half
			da = half.Negate()
		case FreePushFirst:
			da = p.away(b, a, v.Negate())
		case FreeIgnore:
		}
	}
	return da, db
}

// away orients push, which should move free away from fixed.
func (p Policy) away(fixed, free *Body, push geom.Vector2) geom.Vector2 {
	if p.SignRule == SignByCenters {
		dir := free.Shape.Center().Sub(fixed.Shape.Center())
		if dir.Dot(push) < 0 {
			return push.Negate()
		}
	}
	return push
}
