package solver

import (
	"context"

	"mathsolve/internal/logger"
	"mathsolve/internal/model"
)

// Backend is one strategy for producing a structured solution. Implementations
// return an error to signal the chain should fall through to the next one.
type Backend interface {
	Name() string
	Attempt(ctx context.Context, question string, category model.Category) (*StructuredSolution, error)
}

// Solver tries an ordered list of backends and stops at the first success.
// Solve never fails: the offline mock generator is the terminal fallback even
// when no backend in the configured list succeeds.
type Solver struct {
	backends []Backend
	log      *logger.Logger
}

func New(log *logger.Logger, backends ...Backend) *Solver {
	return &Solver{backends: backends, log: log}
}

func (s *Solver) Solve(ctx context.Context, question string, category model.Category) *StructuredSolution {
	for _, backend := range s.backends {
		solution, err := backend.Attempt(ctx, question, category)
		if err != nil {
			s.log.Warn("solving backend failed",
				"backend", backend.Name(),
				"category", category,
				"error", err,
			)
			continue
		}
		solution.SolvedBy = backend.Name()
		s.log.Info("question solved", "backend", backend.Name(), "steps", len(solution.Steps))
		return solution
	}

	solution := MockSolution(question, category)
	s.log.Warn("all solving backends exhausted, using offline mock")
	return solution
}
