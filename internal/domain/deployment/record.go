package deployment

import (
	"time"

	"github.com/oshokin/central-publisher/internal/domain/artifact"
)

// Actor identifies who performed an action.
type Actor struct {
	// Hostname is the machine name where the action was performed.
	Hostname string `yaml:"hostname"`
	// Username is the system user who triggered the action.
	Username string `yaml:"username"`
}

// String renders the actor as "user@host".
func (a *Actor) String() string {
	if a == nil {
		return ""
	}

	return a.Username + "@" + a.Hostname
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// Record is the local trace of an uploaded bundle.
type Record struct {
	// ID is the identifier issued on upload.
	ID ID `yaml:"id"`
	// Name is the deployment name sent with the upload.
	Name string `yaml:"name,omitempty"`
	// Coordinate is the published library.
	Coordinate artifact.Coordinate `yaml:"coordinate"`
	// PURL is the package URL of the coordinate.
	PURL string `yaml:"purl"`
	// PublishingType is the mode the bundle was uploaded with.
	PublishingType PublishingType `yaml:"publishing_type"`
	// ArchivePath is the uploaded archive.
	ArchivePath string `yaml:"archive_path"`
	// ArchiveDigest is the canonical digest of the uploaded archive.
	ArchiveDigest string `yaml:"archive_digest"`
	// ArchiveSize is the archive size in bytes.
	ArchiveSize int64 `yaml:"archive_size"`
	// UploadedBy is who ran the upload.
	UploadedBy *Actor `yaml:"uploaded_by,omitempty"`
	// UploadedAt is when the upload finished.
	UploadedAt time.Time `yaml:"uploaded_at"`
	// LastState is the most recently observed remote state.
	LastState Status `yaml:"last_state,omitempty"`
	// CheckedAt is when LastState was observed.
	CheckedAt time.Time `yaml:"checked_at,omitempty"`
}

// Observe stores a remote state seen at the given time.
func (r *Record) Observe(state Status, at time.Time) {
	r.LastState = state
	r.CheckedAt = at
}

// Clone returns a copy of the record to avoid leaking internal references.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	cloned := *r
	cloned.UploadedBy = r.UploadedBy.Clone()

	return &cloned
}
