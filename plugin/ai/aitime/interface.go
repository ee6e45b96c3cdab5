// Package aitime resolves Spanish and Catalan temporal expressions into
// concrete zoned date-times.
//
// The resolution order is fixed: classifier, language detection, pattern
// rules, base parser, rule correction, model fallback and result assembly.
package aitime

import (
	"context"
	"time"
)

// TimeService defines the temporal resolution interface consumed by the API layer.
type TimeService interface {
	// Resolve runs the full pipeline for one request.
	// Returns an Outcome; err is non-nil only for unexpected failures.
	Resolve(ctx context.Context, req Request) (Outcome, error)
}

// Request is one resolution request. It is never mutated.
type Request struct {
	Expression string
	Reference  time.Time
	Location   *time.Location
}

// Language is the detected language of an expression.
type Language string

const (
	LanguageSpanish Language = "es"
	LanguageCatalan Language = "ca"
)

// Provenance names the stage that produced a resolved moment.
type Provenance string

const (
	ProvenancePattern   Provenance = "pattern"
	ProvenanceParser    Provenance = "parser"
	ProvenanceCorrected Provenance = "corrected"
	ProvenanceFallback  Provenance = "fallback"
)

// Moment is a concrete zoned date-time plus the stage that produced it.
type Moment struct {
	Time       time.Time
	Provenance Provenance
}

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	// Resolved means Moment is valid.
	Resolved OutcomeKind = iota
	// Undefined means the expression carries no temporal content.
	Undefined
	// Unresolved means content was present but no stage produced a date.
	Unresolved
)

func (k OutcomeKind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case Undefined:
		return "undefined"
	case Unresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of a resolution.
type Outcome struct {
	Kind     OutcomeKind
	Moment   Moment
	Language Language
}

func resolvedOutcome(m Moment, lang Language) Outcome {
	return Outcome{Kind: Resolved, Moment: m, Language: lang}
}

func undefinedOutcome(lang Language) Outcome {
	return Outcome{Kind: Undefined, Language: lang}
}

func unresolvedOutcome(lang Language) Outcome {
	return Outcome{Kind: Unresolved, Language: lang}
}
