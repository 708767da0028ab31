package rank

import (
	"errors"
	"fmt"
)

// Factor names one component of a score.
type Factor string

const (
	FactorGenre      Factor = "genre"
	FactorActor      Factor = "actor"
	FactorDirector   Factor = "director"
	FactorRecency    Factor = "recency"
	FactorPopularity Factor = "popularity"

	FactorTitle Factor = "title"
	FactorText  Factor = "text"
	FactorExact Factor = "exact"
)

// personalFactors are the factors of the personalized model, in the order
// their weighted values are summed.
var personalFactors = []Factor{FactorGenre, FactorActor, FactorDirector, FactorRecency, FactorPopularity}

var (
	ErrNegativeWeight = errors.New("negative weight")
	ErrWeightSum      = errors.New("weights sum above 1")
)

// Weights of the personalization model. They must not be negative and must
// sum to at most 1.
type Weights struct {
	Genre      float64 `json:"genre"`
	Actor      float64 `json:"actor"`
	Director   float64 `json:"director"`
	Recency    float64 `json:"recency"`
	Popularity float64 `json:"popularity"`
}

// DefaultWeights returns 0.4/0.2/0.1/0.2/0.1.
func DefaultWeights() Weights {
	return Weights{
		Genre:      0.4,
		Actor:      0.2,
		Director:   0.1,
		Recency:    0.2,
		Popularity: 0.1,
	}
}

// Sum adds every weight.
func (w Weights) Sum() float64 {
	return w.Genre + w.Actor + w.Director + w.Recency + w.Popularity
}

// Validate rejects negative weights and sums above 1.
func (w Weights) Validate() error {
	weights := w.byFactor()
	for _, f := range personalFactors {
		if v := weights[f]; v < 0 {
			return fmt.Errorf("%w: %s=%g", ErrNegativeWeight, f, v)
		}
	}

	// float noise from user supplied decimals such as 0.7+0.2+0.1
	if sum := w.Sum(); sum > 1+1e-9 {
		return fmt.Errorf("%w: %g", ErrWeightSum, sum)
	}
	return nil
}

func (w Weights) byFactor() map[Factor]float64 {
	return map[Factor]float64{
		FactorGenre:      w.Genre,
		FactorActor:      w.Actor,
		FactorDirector:   w.Director,
		FactorRecency:    w.Recency,
		FactorPopularity: w.Popularity,
	}
}
