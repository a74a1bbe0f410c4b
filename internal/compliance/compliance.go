// Package compliance derives the observed ad-awareness indicator. Awareness
// is correlated with, but not identical to, assignment: treated subjects see
// the ad with probability below one, rising with their usage score. The
// analysis layer uses assignment as an instrument for this endogenous signal
// to separate ITT from LATE.
package compliance

import (
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mvittori/trialgen/internal/config"
	"github.com/mvittori/trialgen/internal/schema"
)

// Model draws awareness indicators for endline subjects.
type Model struct {
	cfg config.AwarenessConfig
	rnd *xrand.Rand
}

// NewModel builds a compliance model drawing from the given stream.
func NewModel(cfg config.AwarenessConfig, rnd *xrand.Rand) *Model {
	return &Model{cfg: cfg, rnd: rnd}
}

// Probability returns P(aware) for an arm and usage score:
// zero for control, clamp(base + slope*usage, 0, cap) otherwise.
func (m *Model) Probability(arm schema.Treatment, fbUsage float64) float64 {
	if arm == schema.TreatmentControl {
		return 0
	}
	p := m.cfg.Base + m.cfg.UsageSlope*fbUsage
	if p < 0 {
		return 0
	}
	if p > m.cfg.Cap {
		return m.cfg.Cap
	}
	return p
}

// Awareness draws the indicator for one subject. Control is structurally
// AwarenessNo: a subject cannot be aware of an ad that was never shown.
func (m *Model) Awareness(arm schema.Treatment, fbUsage float64) schema.Awareness {
	if arm == schema.TreatmentControl {
		return schema.AwarenessNo
	}
	b := distuv.Bernoulli{P: m.Probability(arm, fbUsage), Src: m.rnd}
	if b.Rand() == 1 {
		return schema.AwarenessYes
	}
	return schema.AwarenessNo
}
