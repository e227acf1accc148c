package onboarding

// Recommend maps a questionnaire to the stage the family should start at.
//
// The diagnosis status picks a base stage, the child's age caps it, and then
// the override rules below run in order with the last match winning. Overrides
// may raise the stage back above the age cap.
func Recommend(age AgeRange, diagnosis DiagnosisStatus, concern PrimaryConcern) StageID {
	return Explain(age, diagnosis, concern).Stage
}

// Recommendation is the outcome of Explain: the final stage plus how it was reached.
type Recommendation struct {
	Stage     StageID  `json:"stage_id"`
	Base      StageID  `json:"base_stage_id"`
	Capped    bool     `json:"age_capped"`
	Overrides []string `json:"overrides"`
}

func Explain(age AgeRange, diagnosis DiagnosisStatus, concern PrimaryConcern) Recommendation {
	base := diagnosisBase[diagnosis]
	rec := Recommendation{Stage: base, Base: base, Overrides: []string{}}
	if limit, ok := ageCap[age]; ok && base.rank() > limit.rank() {
		rec.Stage = limit
		rec.Capped = true
	}
	for _, rule := range overrides {
		if rule.match(age, diagnosis, concern) {
			rec.Stage = rule.stage
			rec.Overrides = append(rec.Overrides, rule.name)
		}
	}
	return rec
}

// RecommendAnswers is Recommend over an already parsed questionnaire.
func RecommendAnswers(a Answers) StageID {
	return Recommend(a.AgeRange, a.Diagnosis, a.Concern)
}

var diagnosisBase = map[DiagnosisStatus]StageID{
	DiagnosisNone:        StageS1,
	DiagnosisWaiting:     StageS2,
	DiagnosisRecent:      StageS3,
	DiagnosisEstablished: StageS4,
}

var ageCap = map[AgeRange]StageID{
	Age0To18m:  StageS1,
	Age18To36m: StageS2,
	Age3To5y:   StageS3,
	Age5To8y:   StageS4,
}

type override struct {
	name  string
	match func(AgeRange, DiagnosisStatus, PrimaryConcern) bool
	stage StageID
}

// overrides is evaluated top to bottom; order matters.
var overrides = []override{
	{
		name: "school_age_school_concern",
		match: func(a AgeRange, _ DiagnosisStatus, c PrimaryConcern) bool {
			return c == ConcernSchool && a == Age5To8y
		},
		stage: StageS4,
	},
	{
		name: "young_child_speech_concern",
		match: func(a AgeRange, _ DiagnosisStatus, c PrimaryConcern) bool {
			return c == ConcernSpeech && (a == Age0To18m || a == Age18To36m)
		},
		stage: StageS1,
	},
	{
		name: "recent_diagnosis_behavior_concern",
		match: func(_ AgeRange, d DiagnosisStatus, c PrimaryConcern) bool {
			return c == ConcernBehavior && d == DiagnosisRecent
		},
		stage: StageS3,
	},
}
