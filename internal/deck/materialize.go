package deck

import "math/rand/v2"

// Shuffler supplies the random indices used by Materialize.
// *rand.Rand from math/rand/v2 satisfies it.
type Shuffler interface {
	IntN(n int) int
}

type globalShuffler struct{}

func (globalShuffler) IntN(n int) int { return rand.IntN(n) }

// Materialize produces the fixed step sequence of a session: a uniform
// permutation when the deck is random, then the first MaxQuestions entries.
// Each returned step has its Modality assigned. The deck is not modified.
func Materialize(d Deck, rng Shuffler) []Step {
	steps := make([]Step, len(d.Steps))
	copy(steps, d.Steps)
	if d.Random {
		if rng == nil {
			rng = globalShuffler{}
		}
		shuffle(steps, rng)
	}
	if d.MaxQuestions > 0 && len(steps) > d.MaxQuestions {
		steps = steps[:d.MaxQuestions]
	}
	for i := range steps {
		steps[i].Modality = Classify(steps[i])
	}
	return steps
}

// shuffle performs a back-to-front exchange shuffle in place.
func shuffle(steps []Step, rng Shuffler) {
	for i := len(steps) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		steps[i], steps[j] = steps[j], steps[i]
	}
}

// QuestionCount returns how many steps a session of the deck will ask.
func QuestionCount(d Deck) int {
	total := len(d.Steps)
	if d.MaxQuestions > 0 && d.MaxQuestions < total {
		return d.MaxQuestions
	}
	return total
}
