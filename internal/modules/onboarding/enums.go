package onboarding

import (
	"fmt"
	"strings"
)

type AgeRange string

const (
	Age0To18m  AgeRange = "0-18m"
	Age18To36m AgeRange = "18-36m"
	Age3To5y   AgeRange = "3-5y"
	Age5To8y   AgeRange = "5-8y"
)

var AgeRanges = []AgeRange{Age0To18m, Age18To36m, Age3To5y, Age5To8y}

type DiagnosisStatus string

const (
	DiagnosisNone        DiagnosisStatus = "none"
	DiagnosisWaiting     DiagnosisStatus = "waiting"
	DiagnosisRecent      DiagnosisStatus = "recent"
	DiagnosisEstablished DiagnosisStatus = "established"
)

var DiagnosisStatuses = []DiagnosisStatus{DiagnosisNone, DiagnosisWaiting, DiagnosisRecent, DiagnosisEstablished}

type PrimaryConcern string

const (
	ConcernSpeech   PrimaryConcern = "speech"
	ConcernBehavior PrimaryConcern = "behavior"
	ConcernSocial   PrimaryConcern = "social"
	ConcernSchool   PrimaryConcern = "school"
	ConcernGeneral  PrimaryConcern = "general"
)

var PrimaryConcerns = []PrimaryConcern{ConcernSpeech, ConcernBehavior, ConcernSocial, ConcernSchool, ConcernGeneral}

// StageID is a recommended stage, always one of s1..s4.
type StageID string

const (
	StageS1 StageID = "s1"
	StageS2 StageID = "s2"
	StageS3 StageID = "s3"
	StageS4 StageID = "s4"
)

var stageOrder = []StageID{StageS1, StageS2, StageS3, StageS4}

func (s StageID) rank() int {
	for i, v := range stageOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// InvalidValueError reports an input outside one of the closed sets.
type InvalidValueError struct {
	Field string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func parseEnum[T ~string](field, raw string, allowed []T) (T, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, a := range allowed {
		if string(a) == v {
			return a, nil
		}
	}
	var zero T
	return zero, &InvalidValueError{Field: field, Value: raw}
}

func ParseAgeRange(raw string) (AgeRange, error) {
	return parseEnum("child_age_range", raw, AgeRanges)
}

func ParseDiagnosisStatus(raw string) (DiagnosisStatus, error) {
	return parseEnum("diagnosis_status", raw, DiagnosisStatuses)
}

func ParsePrimaryConcern(raw string) (PrimaryConcern, error) {
	return parseEnum("primary_concern", raw, PrimaryConcerns)
}

// Answers is a validated questionnaire.
type Answers struct {
	AgeRange  AgeRange
	Diagnosis DiagnosisStatus
	Concern   PrimaryConcern
}

// ParseAnswers validates all three fields and reports the first bad one.
func ParseAnswers(age, diagnosis, concern string) (Answers, error) {
	a, err := ParseAgeRange(age)
	if err != nil {
		return Answers{}, err
	}
	d, err := ParseDiagnosisStatus(diagnosis)
	if err != nil {
		return Answers{}, err
	}
	c, err := ParsePrimaryConcern(concern)
	if err != nil {
		return Answers{}, err
	}
	return Answers{AgeRange: a, Diagnosis: d, Concern: c}, nil
}
