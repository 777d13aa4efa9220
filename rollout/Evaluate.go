package rollout

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	env "github.com/samuelfneumann/gofqi/environment"
	"github.com/samuelfneumann/gofqi/fqi"
)

// Recorder consumes a visual trace of a rollout. Recording is a side
// channel of evaluation: a Recorder fault is reported but never aborts
// the numeric evaluation.
type Recorder interface {
	// RecordFrame renders the argument observation as one frame of
	// the trace
	RecordFrame(obs mat.Vector) error

	// Close finalizes the trace
	Close() error
}

// Evaluate runs nEpisodes complete episodes on environment under the
// greedy policy induced by q, returning the sample mean and sample
// standard deviation of the episodic returns.
//
// If recorder is non-nil, every visited observation is sent to it as a
// rollout trace.
func Evaluate(q *fqi.QFunction, environment env.Environment, nEpisodes int,
	recorder Recorder) (mean, std float64, err error) {
	if nEpisodes <= 0 {
		return 0, 0, &fqi.ConfigError{
			Field: "nEpisodes",
			Err:   fmt.Errorf("must be positive, got %v", nEpisodes),
		}
	}

	step, err := environment.Reset()
	if err != nil {
		return 0, 0, fmt.Errorf("evaluate: %v", err)
	}
	record(recorder, step.Observation)

	returns := make([]float64, 0, nEpisodes)
	episodeReturn := 0.0

	action := mat.NewVecDense(1, nil)
	for len(returns) < nEpisodes {
		a, err := q.GreedyAction(step.Observation)
		if err != nil {
			return 0, 0, fmt.Errorf("evaluate: %v", err)
		}
		action.SetVec(0, float64(a))

		next, last, err := environment.Step(action)
		if err != nil {
			return 0, 0, fmt.Errorf("evaluate: %v", err)
		}
		episodeReturn += next.Reward
		record(recorder, next.Observation)

		if last {
			returns = append(returns, episodeReturn)
			episodeReturn = 0.0
			if len(returns) == nEpisodes {
				break
			}

			next, err = environment.Reset()
			if err != nil {
				return 0, 0, fmt.Errorf("evaluate: %v", err)
			}
			record(recorder, next.Observation)
		}
		step = next
	}

	return stat.Mean(returns, nil), stat.StdDev(returns, nil), nil
}

// record sends an observation to the recorder, reporting but never
// propagating recording faults
func record(recorder Recorder, obs mat.Vector) {
	if recorder == nil {
		return
	}
	if err := recorder.RecordFrame(obs); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record frame: %v\n", err)
	}
}
