package station

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/GriffinCanCode/stationfiles/internal/domain/files"
)

var (
	ErrInvalidID = errors.New("invalid station id")
	ErrNotFound  = errors.New("station not found")
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Station is a tenant and the guard over its media root
type Station struct {
	ID    string
	Guard *files.Guard
}

// Root returns the canonical media root
func (s *Station) Root() string {
	return s.Guard.Root()
}

// Resolver maps station ids to media roots
type Resolver interface {
	Resolve(id string) (*Station, error)
}

// DirectoryResolver locates station media roots at <BaseDir>/<id>/<MediaDir>
type DirectoryResolver struct {
	BaseDir  string
	MediaDir string
}

// NewDirectoryResolver creates a resolver over baseDir
func NewDirectoryResolver(baseDir, mediaDir string) *DirectoryResolver {
	return &DirectoryResolver{BaseDir: baseDir, MediaDir: mediaDir}
}

// Resolve validates id and guards the station's media root
func (r *DirectoryResolver) Resolve(id string) (*Station, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("%q: %w", id, ErrInvalidID)
	}

	root := filepath.Join(r.BaseDir, id, r.MediaDir)
	guard, err := files.NewGuard(root)
	if err != nil {
		return nil, fmt.Errorf("station %s: %w", id, ErrNotFound)
	}
	return &Station{ID: id, Guard: guard}, nil
}

// ValidID reports whether id is a well-formed station id
func ValidID(id string) bool {
	return len(id) <= 64 && idPattern.MatchString(id)
}
