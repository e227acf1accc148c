package onboarding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecommendLiteralCases(t *testing.T) {
	cases := []struct {
		age       AgeRange
		diagnosis DiagnosisStatus
		concern   PrimaryConcern
		want      StageID
	}{
		{Age0To18m, DiagnosisEstablished, ConcernSocial, StageS1},
		{Age0To18m, DiagnosisEstablished, ConcernGeneral, StageS1},
		{Age18To36m, DiagnosisRecent, ConcernGeneral, StageS2},
		{Age5To8y, DiagnosisEstablished, ConcernGeneral, StageS4},
		{Age3To5y, DiagnosisRecent, ConcernBehavior, StageS3},
		{Age3To5y, DiagnosisEstablished, ConcernSocial, StageS3},
		{Age5To8y, DiagnosisNone, ConcernSchool, StageS4},
		{Age0To18m, DiagnosisRecent, ConcernBehavior, StageS3},
		{Age18To36m, DiagnosisEstablished, ConcernSpeech, StageS1},
		{Age3To5y, DiagnosisWaiting, ConcernSpeech, StageS2},
		{Age5To8y, DiagnosisRecent, ConcernSocial, StageS3},
		{Age3To5y, DiagnosisNone, ConcernBehavior, StageS1},
	}
	for _, tc := range cases {
		got := Recommend(tc.age, tc.diagnosis, tc.concern)
		require.Equalf(t, tc.want, got, "recommend(%s, %s, %s)", tc.age, tc.diagnosis, tc.concern)
	}
}

// expected re-derives the rule table independently of the implementation's data.
func expected(a AgeRange, d DiagnosisStatus, c PrimaryConcern) StageID {
	base := map[DiagnosisStatus]int{DiagnosisNone: 1, DiagnosisWaiting: 2, DiagnosisRecent: 3, DiagnosisEstablished: 4}[d]
	limit := map[AgeRange]int{Age0To18m: 1, Age18To36m: 2, Age3To5y: 3, Age5To8y: 4}[a]
	stage := base
	if stage > limit {
		stage = limit
	}
	if c == ConcernSchool && a == Age5To8y {
		stage = 4
	}
	if c == ConcernSpeech && (a == Age0To18m || a == Age18To36m) {
		stage = 1
	}
	if c == ConcernBehavior && d == DiagnosisRecent {
		stage = 3
	}
	return []StageID{"", StageS1, StageS2, StageS3, StageS4}[stage]
}

func TestParseAnswersAcceptsEveryConcern(t *testing.T) {
	for _, raw := range []string{"speech", "behavior", "social", "school", "general", " General "} {
		a, err := ParseAnswers("0-18m", "established", raw)
		require.NoErrorf(t, err, "concern %q", raw)
		require.Equal(t, StageS1, RecommendAnswers(a))
	}
	_, err := ParseAnswers("0-18m", "established", "sensory")
	var iv *InvalidValueError
	require.True(t, errors.As(err, &iv))
	require.Equal(t, "primary_concern", iv.Field)
}

func TestRecommendTotalAndDeterministic(t *testing.T) {
	count := 0
	for _, a := range AgeRanges {
		for _, d := range DiagnosisStatuses {
			for _, c := range PrimaryConcerns {
				count++
				got := Recommend(a, d, c)
				require.Contains(t, []StageID{StageS1, StageS2, StageS3, StageS4}, got)
				require.Equal(t, got, Recommend(a, d, c))
				require.Equalf(t, expected(a, d, c), got, "recommend(%s, %s, %s)", a, d, c)
			}
		}
	}
	require.Equal(t, 80, count)
}

func TestRecommendOverridePrecedence(t *testing.T) {
	// Rule c runs after rule b, so a very young child with a recent diagnosis
	// and a behavior concern lands on s3 despite the age cap.
	require.Equal(t, StageS3, Recommend(Age0To18m, DiagnosisRecent, ConcernBehavior))
	// Rule a lifts past a low base.
	require.Equal(t, StageS4, Recommend(Age5To8y, DiagnosisWaiting, ConcernSchool))
	// School concern below 5y gets no override.
	require.Equal(t, StageS2, Recommend(Age3To5y, DiagnosisWaiting, ConcernSchool))
}

func TestRecommendAgeCapNeverRaises(t *testing.T) {
	for _, a := range AgeRanges {
		require.Equal(t, StageS1, Recommend(a, DiagnosisNone, ConcernSocial))
	}
}

func TestParseAnswers(t *testing.T) {
	got, err := ParseAnswers(" 3-5Y ", "Recent", "behavior")
	require.NoError(t, err)
	require.Equal(t, Answers{AgeRange: Age3To5y, Diagnosis: DiagnosisRecent, Concern: ConcernBehavior}, got)
	require.Equal(t, StageS3, RecommendAnswers(got))

	_, err = ParseAnswers("9-12y", "none", "speech")
	var inv *InvalidValueError
	require.True(t, errors.As(err, &inv))
	require.Equal(t, "child_age_range", inv.Field)

	_, err = ParseAnswers("0-18m", "unknown", "speech")
	require.ErrorAs(t, err, &inv)
	require.Equal(t, "diagnosis_status", inv.Field)

	_, err = ParseAnswers("0-18m", "none", "")
	require.ErrorAs(t, err, &inv)
	require.Equal(t, "primary_concern", inv.Field)
}

func TestExplain(t *testing.T) {
	rec := Explain(Age18To36m, DiagnosisRecent, ConcernBehavior)
	require.Equal(t, StageS3, rec.Base)
	require.True(t, rec.Capped)
	require.Equal(t, []string{"recent_diagnosis_behavior_concern"}, rec.Overrides)
	require.Equal(t, StageS3, rec.Stage)

	rec = Explain(Age3To5y, DiagnosisWaiting, ConcernSocial)
	require.False(t, rec.Capped)
	require.Empty(t, rec.Overrides)
	require.Equal(t, StageS2, rec.Stage)
}
