package plagiarism

import (
	"fmt"

	"grade_desk/internal/minhash"
	"grade_desk/internal/pipeline"
)

// Scores computes each document's plagiarism score: 100 times its maximum
// estimated Jaccard similarity against any other document in the batch.
// A batch of one scores 0. Rows are independent and computed in parallel.
//
// The pass is quadratic in batch size, which is fine for a course's worth
// of submissions; a larger corpus would need banded LSH candidate pairs
// instead of the full scan.
func Scores(sigs []minhash.Signature, workers int) ([]float64, error) {
	if len(sigs) == 0 {
		return nil, nil
	}
	want := len(sigs[0])
	for i, sig := range sigs {
		if len(sig) != want {
			return nil, fmt.Errorf("signature %d has %d slots, want %d", i, len(sig), want)
		}
	}

	out := make([]float64, len(sigs))
	pipeline.Run(len(sigs), workers, func(i int) error {
		maxSim := 0.0
		for j := range sigs {
			if j == i {
				continue
			}
			if sim := minhash.Estimate(sigs[i], sigs[j]); sim > maxSim {
				maxSim = sim
			}
		}
		out[i] = maxSim * 100
		return nil
	})
	return out, nil
}

// Partition splits document indices into clean (score strictly below the
// threshold percentage) and flagged. Every index lands in exactly one side.
func Partition(scores []float64, threshold float64) (clean, flagged []int) {
	clean = make([]int, 0, len(scores))
	flagged = make([]int, 0)
	for i, score := range scores {
		if score < threshold {
			clean = append(clean, i)
		} else {
			flagged = append(flagged, i)
		}
	}
	return clean, flagged
}
