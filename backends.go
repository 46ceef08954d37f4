package coverart

import (
	"github.com/simonhull/coverart/internal/registry"

	// Tagging backends register themselves in init.
	_ "github.com/simonhull/coverart/internal/id3"
	_ "github.com/simonhull/coverart/internal/taglib"
)

// DefaultBackend is the backend used when WithBackend is not given.
const DefaultBackend = registry.DefaultBackend

// Backends returns the names of the available tagging backends.
func Backends() []string {
	return registry.Names()
}
