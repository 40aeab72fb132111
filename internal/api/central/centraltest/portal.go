package centraltest

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/klauspost/compress/zip"

	"github.com/oshokin/central-publisher/internal/checksum"
	"github.com/oshokin/central-publisher/internal/domain/artifact"
	domain "github.com/oshokin/central-publisher/internal/domain/deployment"
)

// Deployment is the portal view of one upload.
type Deployment struct {
	// ID is the issued identifier.
	ID domain.ID
	// Name is the name sent with the upload.
	Name string
	// PublishingType is the mode sent with the upload.
	PublishingType domain.PublishingType
	// State is the current state.
	State domain.Status
	// PURLs are the components found in the bundle.
	PURLs []string
	// Errors maps a component to its validation failures.
	Errors map[string][]string
	// Entries are the archive entry names.
	Entries []string
}

// Portal keeps deployments in memory.
type Portal struct {
	mu          sync.Mutex
	seq         int
	deployments map[domain.ID]*Deployment
}

// NewPortal creates an empty portal.
func NewPortal() *Portal {
	return &Portal{
		deployments: make(map[domain.ID]*Deployment),
	}
}

// Deployment returns a copy of the deployment, false when it does not exist.
func (p *Portal) Deployment(id domain.ID) (Deployment, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	d, ok := p.deployments[id]
	if !ok {
		return Deployment{}, false
	}

	return *d, true
}

// Upload validates the archive and registers a PENDING deployment.
func (p *Portal) Upload(archive []byte, name string, publishingType domain.PublishingType) (*Deployment, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	entries := make(map[string]*zip.File, len(zr.File))
	names := make([]string, 0, len(zr.File))

	for _, f := range zr.File {
		entries[f.Name] = f
		names = append(names, f.Name)
	}

	d := &Deployment{
		Name:           name,
		PublishingType: publishingType,
		State:          domain.StatusPending,
		Errors:         make(map[string][]string),
		Entries:        names,
	}

	for _, entryName := range names {
		base := path.Base(entryName)
		if artifact.IsSignatureFile(base) || checksum.IsChecksumFile(base) {
			continue
		}

		purl := componentPURL(entryName)
		if !slices.Contains(d.PURLs, purl) {
			d.PURLs = append(d.PURLs, purl)
		}

		for _, problem := range checkEntry(entries, entryName) {
			d.Errors[purl] = append(d.Errors[purl], problem)
		}
	}

	if len(d.PURLs) == 0 {
		d.Errors["bundle"] = []string{"no components found"}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	d.ID = domain.ID(fmt.Sprintf("deployment-%d", p.seq))
	p.deployments[d.ID] = d

	return d, nil
}

// Advance moves the deployment one step along its lifecycle and returns the new view.
// USER_MANAGED deployments stay VALIDATED until promoted.
func (p *Portal) Advance(id domain.ID) (Deployment, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	d, ok := p.deployments[id]
	if !ok {
		return Deployment{}, false
	}

	switch d.State {
	case domain.StatusPending:
		d.State = domain.StatusValidating
	case domain.StatusValidating:
		if len(d.Errors) > 0 {
			d.State = domain.StatusFailed
		} else {
			d.State = domain.StatusValidated
		}
	case domain.StatusValidated:
		if d.PublishingType == domain.Automatic {
			d.State = domain.StatusPublishing
		}
	case domain.StatusPublishing:
		d.State = domain.StatusPublished
	case domain.StatusPublished, domain.StatusFailed:
	}

	return *d, true
}

// Promote starts publishing a validated USER_MANAGED deployment.
func (p *Portal) Promote(id domain.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	d, ok := p.deployments[id]
	if !ok {
		return errDeploymentNotFound
	}

	if d.State != domain.StatusValidated || d.PublishingType != domain.UserManaged {
		return errNotValidated
	}

	d.State = domain.StatusPublishing

	return nil
}

// Drop deletes a deployment that is not being published.
func (p *Portal) Drop(id domain.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	d, ok := p.deployments[id]
	if !ok {
		return errDeploymentNotFound
	}

	if d.State == domain.StatusPublishing || d.State == domain.StatusPublished {
		return errPublished
	}

	delete(p.deployments, id)

	return nil
}

// checkEntry reports missing or wrong companions of one artifact.
func checkEntry(entries map[string]*zip.File, name string) []string {
	var problems []string

	if _, ok := entries[name+artifact.SignatureExtension]; !ok {
		problems = append(problems, "missing signature for "+path.Base(name))
	}

	for _, algorithm := range checksum.Required() {
		sibling := name + "." + algorithm.Extension()

		expected, err := readEntry(entries[sibling])
		if err != nil {
			problems = append(problems, fmt.Sprintf("missing %s checksum for %s", algorithm, path.Base(name)))

			continue
		}

		actual, err := sumEntry(entries[name], algorithm)
		if err != nil || !strings.EqualFold(strings.TrimSpace(string(expected)), actual) {
			problems = append(problems, fmt.Sprintf("invalid %s checksum for %s", algorithm, path.Base(name)))
		}
	}

	return problems
}

func readEntry(f *zip.File) ([]byte, error) {
	if f == nil {
		return nil, errMissingEntry
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = rc.Close()
	}()

	return io.ReadAll(rc)
}

func sumEntry(f *zip.File, algorithm checksum.Algorithm) (string, error) {
	data, err := readEntry(f)
	if err != nil {
		return "", err
	}

	h, err := algorithm.New()
	if err != nil {
		return "", err
	}

	_, _ = h.Write(data)

	return hex.EncodeToString(h.Sum(nil)), nil
}

// componentPURL derives the package URL from a "<group path>/<artifactId>/<version>/<file>" entry.
func componentPURL(name string) string {
	segments := strings.Split(path.Dir(name), "/")
	if len(segments) < 3 {
		return "pkg:maven/" + path.Dir(name)
	}

	n := len(segments)
	coord := artifact.Coordinate{
		GroupID:    strings.Join(segments[:n-2], "."),
		ArtifactID: segments[n-2],
		Version:    segments[n-1],
	}

	return coord.PURL()
}
