package repository

import (
	"github.com/casenotify/casenotify/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Runs *RunnerLogRepository
	Hits *HitRepository
}

// NewRepositories constructs the repository container from the shared
// application dependencies.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Runs: NewRunnerLogRepository(s.DB.Pool, s.Logger),
		Hits: NewHitRepository(s.Batch, s.Timestamps),
	}
}
