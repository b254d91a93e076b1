package models

import "time"

// PatientAttributes is the raw screening input: a flat mapping of attribute
// name to value as decoded from the request body. Keys are an open set; only
// the fields a stage's schema names are read, everything else is ignored.
type PatientAttributes map[string]interface{}

// Recognized attribute names.
const (
	AttrAge      = "AGE"
	AttrGender   = "PTGENDER"
	AttrEducat   = "PTEDUCAT"
	AttrAPOE4    = "APOE4"
	AttrAB42     = "AB42_F"
	AttrAB40     = "AB40_F"
	AttrAB42AB40 = "AB42_AB40_F"
	AttrPT217    = "pT217_AB42_F"
	AttrNfL      = "NfL_Q"
	AttrGFAP     = "GFAP_Q"
)

// BaselineAttributes are required for every stage.
var BaselineAttributes = []string{AttrAge, AttrGender, AttrEducat}

// PlasmaAttributes are the six optional lab values whose presence escalates a
// request to stage 3.
var PlasmaAttributes = []string{AttrAB42, AttrAB40, AttrAB42AB40, AttrPT217, AttrNfL, AttrGFAP}

// ScreeningResult is the core prediction outcome. RiskProbability is the raw
// classifier output in [0,1].
type ScreeningResult struct {
	Stage           int     `json:"stage"`
	RiskProbability float64 `json:"risk_probability"`
	RiskCategory    string  `json:"risk_category"`
}

// ScreeningResponse is the wire shape returned to callers. RiskProbability is
// rendered as a percentage rounded to one decimal; the raw fraction lives only
// in ScreeningResult.
type ScreeningResponse struct {
	Stage           int     `json:"stage"`
	RiskProbability float64 `json:"risk_probability"`
	RiskCategory    string  `json:"risk_category"`
	RiskTier        string  `json:"risk_tier"`
	Message         string  `json:"message"`
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // screening.completed, screening.failed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
