package resource

import "context"

// Remote is the contract every concrete subtype fulfills: the network verbs
// plus the synchronization flags the generic layer defines. Subtypes are
// expected to reload attributes from the remote response on success and set
// the flags accordingly.
type Remote interface {
	Save(ctx context.Context) error
	Destroy(ctx context.Context) error
	Saved() bool
	Created() bool
}

// Create saves a freshly constructed instance. The instance stays usable
// whether or not the remote operation was semantically successful; callers
// check Created and Saved to confirm. Only hard transport or argument errors
// surface, propagated unchanged from Save.
func Create(ctx context.Context, remote Remote) error {
	return remote.Save(ctx)
}
