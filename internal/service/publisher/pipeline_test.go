package publisher_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/central-publisher/internal/archive"
	"github.com/oshokin/central-publisher/internal/config"
	domain "github.com/oshokin/central-publisher/internal/domain/deployment"
	"github.com/oshokin/central-publisher/internal/repository/bundle"
	"github.com/oshokin/central-publisher/internal/service/publisher"
	"github.com/oshokin/central-publisher/internal/signing"
)

const versionDir = "upload/com/example/library/1.0.0"

// echoSigner returns "sig:" followed by the signed bytes.
var echoSigner = signing.SignerFunc(func(_ context.Context, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return append([]byte("sig:"), data...), nil
})

func writeArtifacts(t *testing.T, fs billy.Filesystem, cfg *config.Config) {
	t.Helper()

	for _, file := range cfg.Artifacts {
		require.NoError(t, util.WriteFile(fs, file.Path, []byte("content of "+file.Path), 0o644))
	}
}

func newPipeline(t *testing.T) (*publisher.Pipeline, billy.Filesystem) {
	t.Helper()

	cfg := config.Example()
	source, build := memfs.New(), memfs.New()
	writeArtifacts(t, source, cfg)

	p, err := publisher.NewPipeline(cfg, echoSigner, publisher.WithFilesystems(source, build))
	require.NoError(t, err)

	return p, build
}

func TestPipelinePrepare(t *testing.T) {
	t.Parallel()

	p, build := newPipeline(t)

	result, err := p.Prepare(context.Background())
	require.NoError(t, err)
	require.Equal(t, "library-1.0.0-bundle.zip", result.Path)
	require.Len(t, result.Entries, 24)
	require.Contains(t, result.Entries, "com/example/library/1.0.0/library-1.0.0.pom")
	require.Contains(t, result.Entries, "com/example/library/1.0.0/library-1.0.0.pom.asc")
	require.Contains(t, result.Entries, "com/example/library/1.0.0/library-1.0.0-sources.jar.sha512")
	require.NotContains(t, result.Entries, "com/example/library/1.0.0/library-1.0.0.jar.asc.md5")

	signature, err := util.ReadFile(build, versionDir+"/library-1.0.0.jar.asc")
	require.NoError(t, err)
	require.Equal(t, "sig:content of build/libs/library-1.0.0.jar", string(signature))

	pom, err := util.ReadFile(build, versionDir+"/library-1.0.0.pom")
	require.NoError(t, err)
	require.Contains(t, string(pom), "<artifactId>library</artifactId>")

	names, err := archive.List(build, result.Path)
	require.NoError(t, err)
	require.Equal(t, result.Entries, names)
}

func TestPipelineRefusesStaleArchiveUnlessCleaned(t *testing.T) {
	t.Parallel()

	p, build := newPipeline(t)
	ctx := context.Background()

	_, err := p.Prepare(ctx)
	require.NoError(t, err)

	require.NoError(t, p.Reset(ctx, false))

	_, err = p.Prepare(ctx)
	require.ErrorIs(t, err, archive.ErrArchiveExists)

	var stageErr *publisher.StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, publisher.StageArchive, stageErr.Stage)

	require.NoError(t, p.Reset(ctx, true))

	_, err = p.Prepare(ctx)
	require.NoError(t, err)

	_, err = build.Stat(p.ArchiveName())
	require.NoError(t, err)
}

func TestPipelineResetRemovesStagedFiles(t *testing.T) {
	t.Parallel()

	p, build := newPipeline(t)
	ctx := context.Background()

	require.NoError(t, util.WriteFile(build, versionDir+"/leftover.jar", []byte("old"), 0o644))
	require.NoError(t, p.Reset(ctx, false))

	_, err := build.Stat(versionDir + "/leftover.jar")
	require.Error(t, err)
}

func TestPipelineReportsStage(t *testing.T) {
	t.Parallel()

	cfg := config.Example()
	source, build := memfs.New(), memfs.New()

	p, err := publisher.NewPipeline(cfg, echoSigner, publisher.WithFilesystems(source, build))
	require.NoError(t, err)

	_, err = p.Prepare(context.Background())

	var stageErr *publisher.StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, publisher.StageAggregate, stageErr.Stage)

	var fsErr *bundle.FilesystemError
	require.ErrorAs(t, err, &fsErr)

	errBroken := errors.New("card removed")
	writeArtifacts(t, source, cfg)

	p, err = publisher.NewPipeline(cfg, signing.SignerFunc(func(context.Context, io.Reader) ([]byte, error) {
		return nil, errBroken
	}), publisher.WithFilesystems(source, build))
	require.NoError(t, err)

	_, err = p.Prepare(context.Background())
	require.ErrorIs(t, err, errBroken)
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, publisher.StageSign, stageErr.Stage)
}

func TestNewPipelineValidates(t *testing.T) {
	t.Parallel()

	cfg := config.Example()
	cfg.Coordinate.Version = ""

	_, err := publisher.NewPipeline(cfg, echoSigner, publisher.WithFilesystems(memfs.New(), memfs.New()))
	require.Error(t, err)

	_, err = publisher.NewPipeline(config.Example(), nil, publisher.WithFilesystems(memfs.New(), memfs.New()))
	require.Error(t, err)
}

type fakeUploader struct {
	fileName string
	name     string
	pt       domain.PublishingType
	body     []byte
}

func (f *fakeUploader) Upload(
	_ context.Context,
	archive io.Reader,
	fileName, name string,
	publishingType domain.PublishingType,
) (domain.ID, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, archive); err != nil {
		return "", err
	}

	f.fileName, f.name, f.pt, f.body = fileName, name, publishingType, buf.Bytes()

	return "dep-1", nil
}

func TestPipelineUpload(t *testing.T) {
	t.Parallel()

	p, build := newPipeline(t)
	ctx := context.Background()

	result, err := p.Prepare(ctx)
	require.NoError(t, err)

	uploader := &fakeUploader{}

	id, err := p.Upload(ctx, uploader, result)
	require.NoError(t, err)
	require.Equal(t, domain.ID("dep-1"), id)
	require.Equal(t, "library-1.0.0-bundle.zip", uploader.fileName)
	require.Equal(t, "library-1.0.0", uploader.name)
	require.Equal(t, domain.UserManaged, uploader.pt)

	data, err := util.ReadFile(build, result.Path)
	require.NoError(t, err)
	require.Equal(t, data, uploader.body)
	require.EqualValues(t, len(data), result.Size)
}
