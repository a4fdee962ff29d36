package target

import (
	"fmt"
	"sort"
)

// Ring is one scoring zone: hitting inside Diameter (metres) scores Score.
type Ring struct {
	Diameter float64
	Score    float64
}

// FaceSpec maps ring diameters to scores. Rings are held sorted by
// increasing diameter with strictly decreasing scores; anything outside the
// outermost ring scores zero. A FaceSpec is immutable once built.
type FaceSpec struct {
	rings []Ring
}

// NewFaceSpec validates rings and returns a face spec sorted by diameter.
func NewFaceSpec(rings []Ring) (FaceSpec, error) {
	if len(rings) == 0 {
		return FaceSpec{}, ErrEmptyFace
	}
	sorted := make([]Ring, len(rings))
	copy(sorted, rings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Diameter < sorted[j].Diameter })

	for i, r := range sorted {
		if r.Diameter <= 0 {
			return FaceSpec{}, fmt.Errorf("%w: ring diameter %g is not positive", ErrInvalidFace, r.Diameter)
		}
		if r.Score <= 0 {
			return FaceSpec{}, fmt.Errorf("%w: ring score %g is not positive", ErrInvalidFace, r.Score)
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if r.Diameter == prev.Diameter {
			return FaceSpec{}, fmt.Errorf("%w: duplicate ring diameter %g", ErrInvalidFace, r.Diameter)
		}
		if r.Score >= prev.Score {
			return FaceSpec{}, fmt.Errorf("%w: score %g at diameter %g does not decrease from %g",
				ErrInvalidFace, r.Score, r.Diameter, prev.Score)
		}
	}
	return FaceSpec{rings: sorted}, nil
}

// Rings returns a copy of the rings, innermost first.
func (f FaceSpec) Rings() []Ring {
	out := make([]Ring, len(f.rings))
	copy(out, f.rings)
	return out
}

// Len returns the number of rings.
func (f FaceSpec) Len() int { return len(f.rings) }

// MaxScore is the score of the innermost ring, or zero for an empty face.
func (f FaceSpec) MaxScore() float64 {
	if len(f.rings) == 0 {
		return 0
	}
	return f.rings[0].Score
}

// Each calls fn for every ring from the centre outwards with the score drop
// to the next ring out; the outermost ring drops to zero.
func (f FaceSpec) Each(fn func(r Ring, drop float64)) {
	for i, r := range f.rings {
		next := 0.0
		if i+1 < len(f.rings) {
			next = f.rings[i+1].Score
		}
		fn(r, r.Score-next)
	}
}

// System names a standard target face layout.
type System string

// Supported scoring systems.
const (
	FiveZone            System = "5_zone"
	TenZone             System = "10_zone"
	TenZoneCompound     System = "10_zone_compound"
	TenZoneSixRing      System = "10_zone_6_ring"
	TenZoneFiveRing     System = "10_zone_5_ring"
	TenZoneFiveRingComp System = "10_zone_5_ring_compound"
	WAField             System = "WA_field"
	IFAAField           System = "IFAA_field"
	IFAAFieldExpert     System = "IFAA_field_expert"
	BeiterHitMiss       System = "Beiter_hit_miss"
	Worcester           System = "Worcester"
	WorcesterTwoRing    System = "Worcester_2_ring"
	Custom              System = "custom"
)

// Systems lists the standard scoring systems in a stable order.
func Systems() []System {
	return []System{
		FiveZone, TenZone, TenZoneCompound, TenZoneSixRing, TenZoneFiveRing,
		TenZoneFiveRingComp, WAField, IFAAField, IFAAFieldExpert,
		BeiterHitMiss, Worcester, WorcesterTwoRing,
	}
}

// ParseSystem validates a scoring system name.
func ParseSystem(name string) (System, error) {
	for _, s := range Systems() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q, select from %v", ErrUnknownSystem, name, Systems())
}

// faceFor builds the ring layout of a standard system on a face of
// diameter d metres.
func faceFor(system System, d float64) (FaceSpec, error) {
	var rings []Ring
	switch system {
	case FiveZone:
		for n := 1; n <= 5; n++ {
			rings = append(rings, Ring{float64(n) * d / 5, float64(11 - 2*n)})
		}
	case TenZone:
		rings = tenZone(d, 1, 10)
	case TenZoneCompound:
		rings = append([]Ring{{d / 20, 10}}, tenZone(d, 2, 10)...)
	case TenZoneSixRing:
		rings = tenZone(d, 1, 6)
	case TenZoneFiveRing:
		rings = tenZone(d, 1, 5)
	case TenZoneFiveRingComp:
		rings = append([]Ring{{d / 20, 10}}, tenZone(d, 2, 5)...)
	case WAField:
		rings = []Ring{{d / 10, 6}}
		for n := 2; n <= 6; n++ {
			rings = append(rings, Ring{float64(n) * d / 5, float64(7 - n)})
		}
	case IFAAField:
		rings = []Ring{{d / 5, 5}, {3 * d / 5, 4}, {d, 3}}
	case Worcester, IFAAFieldExpert:
		for n := 1; n <= 5; n++ {
			rings = append(rings, Ring{float64(n) * d / 5, float64(6 - n)})
		}
	case WorcesterTwoRing:
		rings = []Ring{{d / 5, 5}, {2 * d / 5, 4}}
	case BeiterHitMiss:
		rings = []Ring{{d, 1}}
	default:
		return FaceSpec{}, fmt.Errorf("%w: %q", ErrUnknownSystem, system)
	}
	return NewFaceSpec(rings)
}

func tenZone(d float64, from, to int) []Ring {
	rings := make([]Ring, 0, to-from+1)
	for n := from; n <= to; n++ {
		rings = append(rings, Ring{float64(n) * d / 10, float64(11 - n)})
	}
	return rings
}
