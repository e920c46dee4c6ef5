// Package publish contains the artifact publishing contract and its
// implementations. The S3 store is the production backend; the in-memory
// store serves tests and dry runs. Callers should depend on the Store
// interface rather than concrete types so they can substitute backends.
package publish

import "context"

// ContentType is applied to every uploaded artifact. Artifacts are treated
// as pages regardless of their actual content.
const ContentType = "text/html"

// IndexKey is the well-known key (within the run's prefix) that receives a
// duplicate upload when a job sets make_index. The upload is an
// unconditional overwrite of whatever previously occupied the key.
const IndexKey = "index.html"

// Store persists local artifact files under string keys. Implementations
// overwrite existing objects without versioning or backup. Upload returns
// a human-readable destination URI for logging.
type Store interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}
