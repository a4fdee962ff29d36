package handicap

import (
	"testing"

	"github.com/okian/archery-handicaps/internal/domain/round"
	"github.com/okian/archery-handicaps/internal/domain/target"
)

func tgt(t *testing.T, system target.System, diameter, distance float64, indoor bool) target.Target {
	t.Helper()
	out, err := target.New(system, diameter, distance, indoor)
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	return out
}

func wa1440(t *testing.T, name string, d1, d2, d3, d4 float64) round.Round {
	t.Helper()
	return round.Round{
		Codename: name,
		Name:     name,
		Location: round.Outdoor,
		Body:     "WA",
		Passes: []round.Pass{
			{Arrows: 36, Target: tgt(t, target.TenZone, 1.22, d1, false)},
			{Arrows: 36, Target: tgt(t, target.TenZone, 1.22, d2, false)},
			{Arrows: 36, Target: tgt(t, target.TenZone, 0.80, d3, false)},
			{Arrows: 36, Target: tgt(t, target.TenZone, 0.80, d4, false)},
		},
	}
}

func wa1440_90(t *testing.T) round.Round { return wa1440(t, "WA 1440 (90m)", 90, 70, 50, 30) }
func wa1440_70(t *testing.T) round.Round { return wa1440(t, "WA 1440 (70m)", 70, 60, 50, 30) }
func wa1440_60(t *testing.T) round.Round { return wa1440(t, "WA 1440 (60m)", 60, 50, 40, 30) }

func wa18(t *testing.T) round.Round {
	t.Helper()
	return round.Round{
		Codename: "wa18",
		Name:     "WA 18",
		Location: round.Indoor,
		Body:     "WA",
		Passes:   []round.Pass{{Arrows: 60, Target: tgt(t, target.TenZone, 0.40, 18, true)}},
	}
}

func stafford(t *testing.T) round.Round {
	t.Helper()
	return round.Round{
		Codename: "stafford",
		Name:     "Stafford",
		Location: round.Indoor,
		Body:     "AGB",
		Passes:   []round.Pass{{Arrows: 72, Target: tgt(t, target.TenZone, 0.80, 30, true)}},
	}
}

func wa720_70(t *testing.T) round.Round {
	t.Helper()
	return round.Round{
		Codename: "wa720_70",
		Name:     "WA 720 (70m)",
		Location: round.Outdoor,
		Body:     "WA",
		Passes:   []round.Pass{{Arrows: 72, Target: tgt(t, target.TenZone, 1.22, 70, false)}},
	}
}

func mustScheme(t *testing.T, name string, opts ...Option) *Scheme {
	t.Helper()
	s, err := ByName(name, opts...)
	if err != nil {
		t.Fatalf("scheme %s: %v", name, err)
	}
	return s
}
