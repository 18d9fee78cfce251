// Package shortlist drives shortlisting runs: it refreshes every application's CV
// profile, scores it against the job's criteria, ranks the results and flags the
// top N applications.
package shortlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jonathan/cv-shortlister/internal/types"
)

var (
	// ErrJobNotFound aborts a run before anything is modified.
	ErrJobNotFound = errors.New("job not found")
	// ErrApplicationNotFound is returned by single-application operations.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrProfileNotFound is returned when an application has never been profiled.
	ErrProfileNotFound = errors.New("profile not found")
)

// JobRepository reads jobs. GetJob returns nil, nil when the job does not exist.
type JobRepository interface {
	GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error)
}

// ApplicationRepository reads and flags applications. Lookups return nil, nil when
// nothing matches; ListApplicationsByJob returns applications in submission order.
type ApplicationRepository interface {
	ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]types.Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	CreateApplication(ctx context.Context, app *types.Application) error
	SetShortlisted(ctx context.Context, id uuid.UUID, shortlisted bool) error
}

// ProfileRepository caches extracted profiles, one per application.
type ProfileRepository interface {
	GetProfileByApplication(ctx context.Context, applicationID uuid.UUID) (*types.Profile, error)
	SaveProfile(ctx context.Context, p *types.Profile) error
}
