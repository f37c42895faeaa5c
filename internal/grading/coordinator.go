// Package grading turns similarity groups into grades: each group is
// judged by the oracle exactly once (deduplicated through the content-hash
// cache) and the verdict is fanned out to every member, while flagged
// documents receive a deterministic penalty grade without any oracle call.
package grading

import (
	"context"
	"fmt"
	"strings"
	"time"

	"grade_desk/internal/cache"
	"grade_desk/internal/oracle"
	"grade_desk/internal/pipeline"
)

// FailedGrade marks a group whose oracle call failed; the batch itself
// continues.
const FailedGrade = -1

// penaltyBase is the grade a flagged document starts from before its
// similarity percentage is subtracted.
const penaltyBase = 60

// Result is the grade applied to one document.
type Result struct {
	Grade    int
	Feedback string
}

// Logger matches the logging hook the analysis packages accept; nil
// disables logging.
type Logger interface {
	Log(level, stage, message, detail string)
}

// Coordinator grades similarity groups through an injected oracle and
// cache store.
type Coordinator struct {
	Oracle   oracle.Oracle
	Cache    cache.Store
	MaxScore int
	Timeout  time.Duration
	Workers  int
	Logger   Logger
}

// GradeGroups grades each group once and applies the result to every
// member. The returned slice is indexed like texts. Oracle failures are
// local to their group: the members get FailedGrade with labeled feedback
// and the other groups proceed.
func (c *Coordinator) GradeGroups(ctx context.Context, texts []string, groups [][]int, description, supplement string) ([]Result, error) {
	for _, group := range groups {
		for _, i := range group {
			if i < 0 || i >= len(texts) {
				return nil, fmt.Errorf("group index %d out of range for %d texts", i, len(texts))
			}
		}
	}

	results := make([]Result, len(texts))
	pipeline.Run(len(groups), c.Workers, func(gi int) error {
		group := groups[gi]
		members := make([]string, len(group))
		for k, i := range group {
			members[k] = texts[i]
		}
		combined := strings.Join(members, "\n")

		r := c.gradeCombined(ctx, combined, description, supplement)
		for _, i := range group {
			results[i] = r
		}
		return nil
	})
	return results, nil
}

// gradeCombined resolves one combined payload: cache hit, or oracle call
// plus cache fill. Cache I/O errors degrade to an uncached call rather
// than failing the group.
func (c *Coordinator) gradeCombined(ctx context.Context, combined, description, supplement string) Result {
	key := cache.Key(combined, description, supplement)

	if cached, ok, err := c.Cache.Get(key); err != nil {
		c.log("WARN", "cache_get", "cache read failed, grading uncached", err.Error())
	} else if ok {
		c.log("INFO", "cache_get", "grade served from cache", "key="+key)
		return c.scaled(cached)
	}

	callCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	response, err := c.Oracle.Grade(callCtx, oracle.Payload{
		CombinedText:         combined,
		Description:          description,
		SupplementaryContext: supplement,
	})
	if err != nil {
		c.log("ERROR", "oracle_call", "grading call failed", err.Error())
		return Result{
			Grade:    FailedGrade,
			Feedback: fmt.Sprintf("grading failed: %v", err),
		}
	}

	grade, feedback := ParseGrade(response, combined)
	stored := cache.Result{Grade: grade, Feedback: feedback}
	if err := c.Cache.Put(key, stored); err != nil {
		c.log("WARN", "cache_put", "cache write failed", err.Error())
	} else if winner, ok, getErr := c.Cache.Get(key); getErr == nil && ok {
		// First writer wins; adopt whatever the store settled on.
		stored = winner
	}
	return c.scaled(stored)
}

// Penalty grades a flagged document from its plagiarism score; the oracle
// is never consulted.
func Penalty(score float64) Result {
	grade := penaltyBase - int(score)
	if grade < 0 {
		grade = 0
	}
	return Result{
		Grade:    grade,
		Feedback: fmt.Sprintf("Submission flagged for plagiarism: %.2f%% similarity to another submission in this batch. A penalty grade was applied without review.", score),
	}
}

// scaled maps a cached 0..100 grade onto the coordinator's maximum score.
func (c *Coordinator) scaled(r cache.Result) Result {
	maxScore := c.MaxScore
	if maxScore <= 0 || maxScore == 100 {
		return Result{Grade: r.Grade, Feedback: r.Feedback}
	}
	return Result{Grade: r.Grade * maxScore / 100, Feedback: r.Feedback}
}

func (c *Coordinator) log(level, stage, message, detail string) {
	if c.Logger != nil {
		c.Logger.Log(level, stage, message, detail)
	}
}
