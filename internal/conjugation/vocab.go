// Package conjugation collects verb conjugation tables from definition
// sentences ("third-person singular present indicative of manger") and
// from the fixed-layout conjugation tables of verb articles.
package conjugation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCoordinate means a sentence named a person, number or tense
// outside the closed vocabulary below. It is not retryable.
var ErrUnknownCoordinate = errors.New("unknown conjugation coordinate")

type TenseMood int

const (
	PresentIndicative TenseMood = iota
	ImperfectIndicative
	PastHistoric
	SimpleFuture
	PresentSubjunctive
	ImperfectSubjunctive
	Conditional
	Imperative

	numTenseMoods
)

// Persons is the number of person/number slots of every tense.
const Persons = 6

var tenseMoodNames = [numTenseMoods]string{
	"present indicative",
	"imperfect indicative",
	"past historic",
	"simple future",
	"present subjunctive",
	"imperfect subjunctive",
	"conditional",
	"imperative",
}

func (t TenseMood) String() string {
	if t < 0 || t >= numTenseMoods {
		return fmt.Sprintf("TenseMood(%d)", int(t))
	}
	return tenseMoodNames[t]
}

var tenseMoodLabels = map[string]TenseMood{
	"present indicative":    PresentIndicative,
	"imperfect indicative":  ImperfectIndicative,
	"past historic":         PastHistoric,
	"simple future":         SimpleFuture,
	"future":                SimpleFuture,
	"future indicative":     SimpleFuture,
	"indicative future":     SimpleFuture,
	"present subjunctive":   PresentSubjunctive,
	"imperfect subjunctive": ImperfectSubjunctive,
	"conditional":           Conditional,
	"imperative":            Imperative,
	"present imperative":    Imperative,
}

func ResolveTenseMood(label string) (TenseMood, error) {
	t, ok := tenseMoodLabels[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return 0, fmt.Errorf("%w: tense/mood %q", ErrUnknownCoordinate, label)
	}
	return t, nil
}

var personSlots = map[[2]string]int{
	{"first", "singular"}:  0,
	{"second", "singular"}: 1,
	{"third", "singular"}:  2,
	{"first", "plural"}:    3,
	{"second", "plural"}:   4,
	{"third", "plural"}:    5,
}

// ResolvePerson maps e.g. ("Third", "plural") to slot 5.
func ResolvePerson(person, number string) (int, error) {
	key := [2]string{strings.ToLower(person), strings.ToLower(number)}
	slot, ok := personSlots[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s-person %s", ErrUnknownCoordinate, person, number)
	}
	return slot, nil
}
