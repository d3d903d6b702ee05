package subpage

import (
	"errors"

	"github.com/pthm/subpage/lib/fetch"
	"github.com/pthm/subpage/lib/frame"
	"github.com/pthm/subpage/lib/resolve"
	"github.com/pthm/subpage/lib/router"
)

// Sentinel errors of the subpackages, re-exported for errors.Is checks.
var (
	ErrNotFound      = fetch.ErrNotFound
	ErrStatus        = fetch.ErrStatus
	ErrCycle         = resolve.ErrCycle
	ErrDepthExceeded = resolve.ErrDepthExceeded
	ErrMissingName   = resolve.ErrMissingName
	ErrUnknownRoute  = router.ErrUnknownRoute
	ErrNoMount       = frame.ErrNoMount
)

// IsNotFound checks if err is a missing fragment, page or shell.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCycle checks if err comes from fragments that include each other or
// nest too deeply.
func IsCycle(err error) bool {
	return errors.Is(err, ErrCycle) || errors.Is(err, ErrDepthExceeded)
}

// IsUnknownRoute checks if err names a route outside the sitemap.
func IsUnknownRoute(err error) bool {
	return errors.Is(err, ErrUnknownRoute)
}
