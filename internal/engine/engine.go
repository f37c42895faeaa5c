// Package engine runs the full scoring pipeline over one batch of
// extracted submission texts: shingle, sketch, score, filter, cluster,
// grade. State lives for the batch only; nothing but the grading cache
// outlasts a call.
package engine

import (
	"context"
	"fmt"
	"math"
	"sort"

	"grade_desk/internal/cluster"
	"grade_desk/internal/grading"
	"grade_desk/internal/minhash"
	"grade_desk/internal/pipeline"
	"grade_desk/internal/plagiarism"
	"grade_desk/internal/shingle"
	"grade_desk/internal/tfidf"
)

const (
	DefaultPlagiarismThreshold = 30.0
	DefaultGroupThreshold      = 0.8
)

// Batch is one scoring request.
type Batch struct {
	// Documents maps document id to its extracted text.
	Documents map[string]string
	// PlagiarismThreshold is a percentage; documents at or above it are
	// flagged and never graded.
	PlagiarismThreshold float64
	// GroupThreshold is the cosine similarity at which clean documents
	// are graded as one group.
	GroupThreshold float64
	// Description is the assignment context given to the oracle.
	Description string
	// SupplementaryContext is an optional extract (e.g. from a provided
	// reference document) added to the grading prompt.
	SupplementaryContext string
	// MaxScore caps grades; zero means 100.
	MaxScore int
}

// Result is the per-document outcome.
type Result struct {
	PlagiarismScore float64 `json:"plagiarism_score"`
	Grade           int     `json:"grade"`
	Feedback        string  `json:"feedback"`
}

// Report is the batch outcome.
type Report struct {
	Results           map[string]Result `json:"grading_results"`
	AveragePlagiarism float64           `json:"overall_avg_plagiarism"`
}

// Engine wires the pipeline stages together. Coordinator carries the
// oracle and cache; the rest is tuning.
type Engine struct {
	Coordinator  *grading.Coordinator
	Permutations int
	GroupMode    cluster.Mode
	Workers      int
	Logger       grading.Logger
}

// Process scores and grades one batch. Per-group oracle failures surface
// as labeled failure results; only batch-level invariant violations
// return an error.
func (e *Engine) Process(ctx context.Context, b Batch) (*Report, error) {
	if len(b.Documents) == 0 {
		return nil, fmt.Errorf("empty batch")
	}
	if b.PlagiarismThreshold <= 0 {
		b.PlagiarismThreshold = DefaultPlagiarismThreshold
	}
	if b.GroupThreshold <= 0 {
		b.GroupThreshold = DefaultGroupThreshold
	}

	// Stable document order: ids sorted. Grouping tie-breaks depend on
	// document order, so the order must not vary between runs.
	ids := make([]string, 0, len(b.Documents))
	for id := range b.Documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	texts := make([]string, len(ids))
	for i, id := range ids {
		texts[i] = b.Documents[id]
	}

	scheme := minhash.New(e.Permutations)
	sigs := make([]minhash.Signature, len(texts))
	pipeline.Run(len(texts), e.Workers, func(i int) error {
		sigs[i] = scheme.Sign(shingle.Set(texts[i]))
		return nil
	})

	scores, err := plagiarism.Scores(sigs, e.Workers)
	if err != nil {
		return nil, fmt.Errorf("plagiarism scoring: %w", err)
	}
	cleanIdx, flaggedIdx := plagiarism.Partition(scores, b.PlagiarismThreshold)
	e.log("INFO", "filter", "batch partitioned",
		fmt.Sprintf("documents=%d clean=%d flagged=%d threshold=%.1f", len(ids), len(cleanIdx), len(flaggedIdx), b.PlagiarismThreshold))

	coord := *e.Coordinator
	coord.MaxScore = b.MaxScore
	coord.Workers = e.Workers

	results := make(map[string]Result, len(ids))
	for _, i := range flaggedIdx {
		p := grading.Penalty(scores[i])
		results[ids[i]] = Result{
			PlagiarismScore: round2(scores[i]),
			Grade:           p.Grade,
			Feedback:        p.Feedback,
		}
	}

	if len(cleanIdx) > 0 {
		cleanTexts := make([]string, len(cleanIdx))
		for k, i := range cleanIdx {
			cleanTexts[k] = texts[i]
		}
		sim := tfidf.Matrix(cleanTexts)
		groups := cluster.Groups(sim, b.GroupThreshold, e.GroupMode)
		e.log("INFO", "cluster", "clean set grouped",
			fmt.Sprintf("clean=%d groups=%d threshold=%.2f", len(cleanIdx), len(groups), b.GroupThreshold))

		graded, err := coord.GradeGroups(ctx, cleanTexts, groups, b.Description, b.SupplementaryContext)
		if err != nil {
			return nil, fmt.Errorf("grading: %w", err)
		}
		for k, i := range cleanIdx {
			results[ids[i]] = Result{
				PlagiarismScore: round2(scores[i]),
				Grade:           graded[k].Grade,
				Feedback:        graded[k].Feedback,
			}
		}
	} else {
		e.log("INFO", "cluster", "clean set empty, clustering skipped", "")
	}

	total := 0.0
	for _, s := range scores {
		total += s
	}
	return &Report{
		Results:           results,
		AveragePlagiarism: round2(total / float64(len(scores))),
	}, nil
}

func (e *Engine) log(level, stage, message, detail string) {
	if e.Logger != nil {
		e.Logger.Log(level, stage, message, detail)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
