// Package target describes archery target faces and the distances they are
// shot at.
package target

import "fmt"

// Target is a face shot at a fixed distance. Diameter and Distance are in
// metres; NativeUnit records the unit the distance is quoted in.
type Target struct {
	Face       FaceSpec
	System     System
	Diameter   float64
	Distance   float64
	Indoor     bool
	NativeUnit LengthUnit
}

// Option configures a Target.
type Option func(*Target)

// WithNativeUnit records the unit the distance is conventionally quoted in.
func WithNativeUnit(u LengthUnit) Option {
	return func(t *Target) {
		if u != "" {
			t.NativeUnit = u
		}
	}
}

// New builds a target for a standard scoring system. diameter and distance
// are in metres.
func New(system System, diameter, distance float64, indoor bool, opts ...Option) (Target, error) {
	if diameter <= 0 || distance <= 0 {
		return Target{}, fmt.Errorf("%w: diameter=%g distance=%g", ErrInvalidDimension, diameter, distance)
	}
	face, err := faceFor(system, diameter)
	if err != nil {
		return Target{}, err
	}
	t := Target{
		Face:       face,
		System:     system,
		Diameter:   diameter,
		Distance:   distance,
		Indoor:     indoor,
		NativeUnit: Metre,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t, nil
}

// NewCustom builds a target from an explicit face spec. The diameter is
// taken from the outermost ring.
func NewCustom(face FaceSpec, distance float64, indoor bool, opts ...Option) (Target, error) {
	if face.Len() == 0 {
		return Target{}, ErrEmptyFace
	}
	if distance <= 0 {
		return Target{}, fmt.Errorf("%w: distance=%g", ErrInvalidDimension, distance)
	}
	rings := face.rings
	t := Target{
		Face:       face,
		System:     Custom,
		Diameter:   rings[len(rings)-1].Diameter,
		Distance:   distance,
		Indoor:     indoor,
		NativeUnit: Metre,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t, nil
}

// MaxScore returns the highest score a single arrow can make.
func (t Target) MaxScore() float64 {
	return t.Face.MaxScore()
}

// String renders the target in the way round sheets quote it.
func (t Target) String() string {
	return fmt.Sprintf("%gcm %s at %g%s", t.Diameter*100, t.System,
		FromMetres(t.Distance, t.NativeUnit), unitSuffix(t.NativeUnit))
}

func unitSuffix(u LengthUnit) string {
	switch u {
	case Yard:
		return "yd"
	case Centimetre:
		return "cm"
	case Inch:
		return "in"
	default:
		return "m"
	}
}
