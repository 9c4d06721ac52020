// Package evaluator grades one repository's submission against the
// answer key for the student's group.
//
// Evaluation runs a deterministic rule chain: whole-submission
// preconditions first (answers directory present, exactly three answer
// files, group present in the key), then an independent per-slot check
// chain where the first failing rule decides that slot's outcome. A
// failure in one slot never skips the others, so the final reason lists
// every failing slot in order.
package evaluator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mgarrido/repograder/internal/answerkey"
)

// MinAnswerLength is the minimum number of normalized characters an
// answer must contain to be considered at all.
const MinAnswerLength = 20

// ReasonSeparator joins slot-level reason codes into the record reason.
const ReasonSeparator = "; "

// Whole-submission reason codes. When one of these applies, no slot-level
// outcomes are produced.
const (
	ReasonNoAnswersDir     = "NO_EXISTE_CARPETA_RESPUESTAS"
	ReasonWrongAnswerCount = "CANTIDAD_RESPUESTAS_INCORRECTA"
	ReasonGroupKeyMissing  = "GRUPO_SIN_CLAVE"
)

// Outcome classifies one answer slot after evaluation.
type Outcome string

const (
	OutcomeOK           Outcome = "OK"
	OutcomeMissing      Outcome = "MISSING"
	OutcomeTooShort     Outcome = "TOO_SHORT"
	OutcomeWrongType    Outcome = "WRONG_TYPE"
	OutcomeWrongContent Outcome = "WRONG_CONTENT"
)

// SlotResult is the outcome of one answer slot. Code is empty for OK
// slots and a RESPUESTA_<i>_* reason code otherwise.
type SlotResult struct {
	Slot    int
	Outcome Outcome
	Code    string
}

// Result is the verdict for one submission.
//
// When Code is non-empty a whole-submission precondition failed and Slots
// is nil. Otherwise Slots holds one entry per answer slot in order and
// Reason is "OK" on approval or the joined codes of the failing slots.
type Result struct {
	Approved bool
	Reason   string
	Code     string
	Slots    []SlotResult
}

// Submission is the evaluator's view of one cloned repository. The
// filesystem-backed implementation lives in submission.go; tests inject
// in-memory fakes.
type Submission interface {
	// HasAnswersDir reports whether the answers directory exists.
	HasAnswersDir() bool
	// AnswerCount returns the number of discoverable answer files.
	AnswerCount() int
	// ReadSlot returns the text for slot (1-based) and whether the
	// slot's file exists.
	ReadSlot(slot int) (string, bool)
}

// Evaluate grades a submission against the answer key entry for group.
// It never panics on missing or short-keyed groups; both conditions
// surface as a whole-record ReasonGroupKeyMissing result.
func Evaluate(group string, key *answerkey.Store, sub Submission) Result {
	if !sub.HasAnswersDir() {
		return Result{Reason: ReasonNoAnswersDir, Code: ReasonNoAnswersDir}
	}
	if sub.AnswerCount() != answerkey.SlotsPerGroup {
		return Result{Reason: ReasonWrongAnswerCount, Code: ReasonWrongAnswerCount}
	}

	// A key with the wrong slot count is as unusable as a missing one;
	// indexing it would panic mid-batch.
	expected, ok := key.Lookup(group)
	if !ok || len(expected) != answerkey.SlotsPerGroup {
		return Result{Reason: ReasonGroupKeyMissing, Code: ReasonGroupKeyMissing}
	}

	slots := make([]SlotResult, 0, answerkey.SlotsPerGroup)
	var failures []string
	for i := 1; i <= answerkey.SlotsPerGroup; i++ {
		sr := evaluateSlot(i, expected[i-1], sub)
		slots = append(slots, sr)
		if sr.Code != "" {
			failures = append(failures, sr.Code)
		}
	}

	if len(failures) == 0 {
		return Result{Approved: true, Reason: "OK", Slots: slots}
	}
	return Result{Reason: strings.Join(failures, ReasonSeparator), Slots: slots}
}

// evaluateSlot applies the per-slot rule chain; the first failing rule
// decides the outcome.
func evaluateSlot(slot int, expected answerkey.ExpectedAnswer, sub Submission) SlotResult {
	text, ok := sub.ReadSlot(slot)
	if !ok {
		return SlotResult{Slot: slot, Outcome: OutcomeMissing, Code: slotCode(slot, "NO_EXISTE")}
	}

	normalized := strings.TrimSpace(strings.ToLower(text))
	if utf8.RuneCountInString(normalized) < MinAnswerLength {
		return SlotResult{Slot: slot, Outcome: OutcomeTooShort, Code: slotCode(slot, "MUY_CORTA")}
	}

	if !strings.Contains(normalized, strings.ToLower(expected.Type)) {
		return SlotResult{Slot: slot, Outcome: OutcomeWrongType, Code: slotCode(slot, "TIPO_INCORRECTO")}
	}

	if !containsAnyKeyword(normalized, expected.Keywords) {
		return SlotResult{Slot: slot, Outcome: OutcomeWrongContent, Code: slotCode(slot, "CONTENIDO_INCORRECTO")}
	}

	return SlotResult{Slot: slot, Outcome: OutcomeOK}
}

func containsAnyKeyword(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(normalized, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func slotCode(slot int, suffix string) string {
	return fmt.Sprintf("RESPUESTA_%d_%s", slot, suffix)
}
