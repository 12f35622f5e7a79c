package limits

import (
	"errors"
	"slices"
)

// Feature is a plan-specific feature flag.
type Feature string

// Feature flags unlocked by subscription tiers.
const (
	FeatureSummary           Feature = "summary"
	FeatureSimpleExplanation Feature = "simple_explanation"
	FeatureSuggestions       Feature = "suggestions"
	FeatureImprovedVersion   Feature = "improved_version"
	FeatureExamSimulation    Feature = "exam_simulation"
)

// Unlimited marks a resource with no cap enforced.
const Unlimited = -1

// ErrInvalidState is returned when a caller passes a negative usage count.
// Negative usage is a caller contract violation, not an "allow" path.
var ErrInvalidState = errors.New("limits: negative usage count")

// PlanID enumerates subscription tiers.
type PlanID string

const (
	PlanFree     PlanID = "free"
	PlanStandard PlanID = "standard"
	PlanPro      PlanID = "pro"
)

// Plan describes a subscription tier: its price in the accounting currency and
// the resource limits and feature flags it unlocks. The table is configuration,
// immutable at runtime.
type Plan struct {
	ID            PlanID
	Name          string
	BasePrice     float64 // accounting currency (MZN)
	DocumentLimit int     // Unlimited disables the cap
	PageLimit     int     // max pages per upload
	AnalysisLimit int     // total AI analyses, Unlimited disables the cap
	Features      []Feature
}

var plans = map[PlanID]Plan{
	PlanFree: {
		ID:            PlanFree,
		Name:          "Free",
		BasePrice:     0,
		DocumentLimit: 1,
		PageLimit:     5,
		AnalysisLimit: 2,
		Features:      []Feature{FeatureSummary, FeatureSimpleExplanation},
	},
	PlanStandard: {
		ID:            PlanStandard,
		Name:          "Standard",
		BasePrice:     850,
		DocumentLimit: Unlimited,
		PageLimit:     50,
		AnalysisLimit: Unlimited,
		Features: []Feature{
			FeatureSummary,
			FeatureSimpleExplanation,
			FeatureSuggestions,
			FeatureImprovedVersion,
		},
	},
	PlanPro: {
		ID:            PlanPro,
		Name:          "Pro",
		BasePrice:     1500,
		DocumentLimit: Unlimited,
		PageLimit:     100,
		AnalysisLimit: Unlimited,
		Features: []Feature{
			FeatureSummary,
			FeatureSimpleExplanation,
			FeatureSuggestions,
			FeatureImprovedVersion,
			FeatureExamSimulation,
		},
	},
}

// tierOrder is the display/upgrade ordering of public plans.
var tierOrder = []PlanID{PlanFree, PlanStandard, PlanPro}

// Plans returns all tiers in upgrade order.
func Plans() []Plan {
	out := make([]Plan, 0, len(tierOrder))
	for _, id := range tierOrder {
		out = append(out, snapshot(plans[id]))
	}
	return out
}

// LimitsFor returns the tier configuration for the given plan identifier.
// Unknown, empty, or corrupted identifiers degrade to the free tier: upstream
// plan values come from unreliable sources and must never implicitly grant
// access, and never error.
func LimitsFor(id string) Plan {
	if p, ok := plans[PlanID(id)]; ok {
		return snapshot(p)
	}
	return snapshot(plans[PlanFree])
}

// CanCreateDocument reports whether a user on the plan may create another
// document given their current document count.
//
// The count is caller-supplied and advisory: this check makes no freshness or
// atomicity guarantee, so concurrent creations must be serialized (or
// corrected after the fact) by the document workflow itself.
func CanCreateDocument(id string, currentCount int) (bool, error) {
	if currentCount < 0 {
		return false, ErrInvalidState
	}
	p := LimitsFor(id)
	if p.DocumentLimit == Unlimited {
		return true, nil
	}
	return currentCount < p.DocumentLimit, nil
}

// CanRunAnalysis reports whether the plan allows another AI analysis given the
// number already used. Same advisory contract as CanCreateDocument.
func CanRunAnalysis(id string, used int) (bool, error) {
	if used < 0 {
		return false, ErrInvalidState
	}
	p := LimitsFor(id)
	if p.AnalysisLimit == Unlimited {
		return true, nil
	}
	return used < p.AnalysisLimit, nil
}

// CanUploadPages reports whether a single upload of the given page count fits
// the plan's per-upload page limit.
func CanUploadPages(id string, pages int) (bool, error) {
	if pages < 0 {
		return false, ErrInvalidState
	}
	p := LimitsFor(id)
	if p.PageLimit == Unlimited {
		return true, nil
	}
	return pages <= p.PageLimit, nil
}

// IsFeatureEnabled reports whether the plan unlocks the feature. Unknown
// features are disabled, never an error: a missing feature is always the safe
// default.
func IsFeatureEnabled(id string, feature Feature) bool {
	return slices.Contains(LimitsFor(id).Features, feature)
}

// snapshot copies the plan so callers cannot mutate the shared table through
// the Features slice.
func snapshot(p Plan) Plan {
	p.Features = slices.Clone(p.Features)
	return p
}
