// Package schema defines the categorical codebook shared by the baseline and
// endline tables. Both table builders reference these level sets so factor
// levels and their ordering are identical across the two data products.
package schema

// Treatment identifies the experimental arm a subject was assigned to.
type Treatment string

const (
	TreatmentControl Treatment = "control"
	TreatmentLogos   Treatment = "logos"
	TreatmentPathos  Treatment = "pathos"
)

// Treatments returns the three arms in their canonical order.
func Treatments() []Treatment {
	return []Treatment{TreatmentControl, TreatmentLogos, TreatmentPathos}
}

// Valid reports whether t is one of the three arms.
func (t Treatment) Valid() bool {
	switch t {
	case TreatmentControl, TreatmentLogos, TreatmentPathos:
		return true
	}
	return false
}

// Awareness is the observed ad-awareness indicator. Control-arm subjects are
// structurally AwarenessNo: they were never shown an ad.
type Awareness string

const (
	AwarenessYes Awareness = "Yes"
	AwarenessNo  Awareness = "No"
)

// Valid reports whether a is a recognized awareness level.
func (a Awareness) Valid() bool {
	return a == AwarenessYes || a == AwarenessNo
}

// Covariate column names, as they appear in both output tables.
const (
	ColIdentifier = "identifier"
	ColGender     = "gender"
	ColRace       = "race"
	ColAgeGroup   = "age_group"
	ColEducation  = "edu"
	ColIncome     = "income_bracket"
	ColState      = "state"
	ColFBUsage    = "fb_usage"
	ColVaxPercpt  = "vax_percpt"
	ColTreatment  = "treatment"
	ColAwareness  = "ad_awareness"
	ColNewVax     = "new_vax_percpt"
)

// GenderLevels lists gender levels in canonical order.
var GenderLevels = []string{"Female", "Male", "Nonbinary"}

// RaceLevels lists race levels in canonical order.
var RaceLevels = []string{"White", "Black", "Hispanic", "Asian", "Other"}

// AgeGroupLevels lists age bands, ordered youngest to oldest.
var AgeGroupLevels = []string{"18-24", "25-34", "35-44", "45-54", "55-64", "65+"}

// EducationLevels lists attainment bands, ordered lowest to highest.
var EducationLevels = []string{
	"below-high-school",
	"high-school",
	"some-college",
	"bachelors-or-above",
}

// IncomeLevels lists household income bands, ordered lowest to highest.
var IncomeLevels = []string{
	"<25k", "25k-50k", "50k-75k", "75k-100k", "100k-150k", "150k+",
}

// Likert scale bounds for vax_percpt and new_vax_percpt.
const (
	ScaleMin = 1
	ScaleMax = 5
)

// FBUsage reporting range (hours-equivalent usage score, one decimal).
const (
	FBUsageMin = 0.0
	FBUsageMax = 7.0
)

// CategoricalLevels returns the canonical level set for a categorical
// covariate column, or false if the column is not categorical.
func CategoricalLevels(col string) ([]string, bool) {
	switch col {
	case ColGender:
		return GenderLevels, true
	case ColRace:
		return RaceLevels, true
	case ColAgeGroup:
		return AgeGroupLevels, true
	case ColEducation:
		return EducationLevels, true
	case ColIncome:
		return IncomeLevels, true
	case ColState:
		return StateLevels, true
	}
	return nil, false
}

// BlockableCovariates lists the columns accepted as blocking covariates.
func BlockableCovariates() []string {
	return []string{ColGender, ColRace, ColAgeGroup, ColEducation, ColIncome, ColState}
}

// LevelIndex returns the position of level within levels, or -1.
func LevelIndex(levels []string, level string) int {
	for i, l := range levels {
		if l == level {
			return i
		}
	}
	return -1
}
