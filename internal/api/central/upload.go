package central

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/oshokin/central-publisher/internal/domain/deployment"
	"github.com/oshokin/central-publisher/internal/logger"
)

// bundlePart is the multipart field carrying the archive.
const bundlePart = "bundle"

// Upload streams the archive as the "bundle" part of a multipart request.
// fileName is the archive file name, name an optional human readable deployment name.
// Any failure is an *UploadError.
func (c *Client) Upload(
	ctx context.Context,
	archive io.Reader,
	fileName, name string,
	publishingType deployment.PublishingType,
) (deployment.ID, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	done := make(chan struct{})

	go func() {
		defer close(done)

		pw.CloseWithError(writeBundle(form, archive, fileName))
	}()

	resp, err := c.do(ctx, http.MethodPost, c.endpoints.Upload(publishingType, name), pr, form.FormDataContentType())

	// Unblocks the writer when the request ended before the body was consumed.
	_ = pr.Close()
	<-done

	if err != nil {
		return "", &UploadError{Err: err}
	}

	if !resp.ok() {
		return "", &UploadError{StatusCode: resp.statusCode, Body: resp.body}
	}

	id, err := parseDeploymentID(resp.body)
	if err != nil {
		return "", &UploadError{StatusCode: resp.statusCode, Body: resp.body, Err: err}
	}

	logger.InfoKV(ctx, "Uploaded bundle", "deployment_id", id.String(), "publishing_type", string(publishingType))

	return id, nil
}

func writeBundle(form *multipart.Writer, archive io.Reader, fileName string) error {
	part, err := form.CreateFormFile(bundlePart, fileName)
	if err != nil {
		return err
	}

	if _, err = io.Copy(part, archive); err != nil {
		return err
	}

	return form.Close()
}
