// Package api - Blob-Methoden des Clients.
// Dieses Modul enthaelt BlobExists (HEAD) und CreateBlob (Multipart-Upload).

package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"
)

// blobUploadUsesBaseURL selects the target of [Client.CreateBlob]. Uploads
// currently go to the bare "blobs/{digest}" path instead of
// {base}/api/blobs/{digest}, which the server is unlikely to accept.
// TODO: switch to true once the server side confirms the upload route.
const blobUploadUsesBaseURL = false

// BlobExists reports whether the server has a blob with the given digest. It
// is true only for a 200 answer; other statuses and transport errors are
// reported as false.
func (c *Client) BlobExists(ctx context.Context, digest string) bool {
	log := requestLog(http.MethodHead, endpointBlobs)

	request, err := c.newRequest(ctx, http.MethodHead, endpointBlobs+"/"+digest, nil, "application/json")
	if err != nil {
		log.Debug("blob check failed", "digest", digest, "error", err)
		return false
	}

	resp, err := c.http.Do(request)
	if err != nil {
		log.Debug("blob check failed", "digest", digest, "error", err)
		return false
	}
	resp.Body.Close()

	log.Debug("blob check", "digest", digest, "status", resp.StatusCode)

	return resp.StatusCode == http.StatusOK
}

// CreateBlob uploads the file at path as a multipart form (field "file") and
// returns the status code. digest is the expected SHA256 digest of the file.
//
// A missing file is reported as an error wrapping [fs.ErrNotExist] before
// anything is sent. Any failure while uploading is logged and reported as
// status 500 with a nil error.
func (c *Client) CreateBlob(ctx context.Context, digest, path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		slog.Debug("blob file not accessible", "path", path, "error", err)
		return 0, fmt.Errorf("file not found: %s: %w", path, errors.Join(fs.ErrNotExist, err))
	}

	status, err := c.uploadBlob(ctx, c.blobUploadURL(digest), path)
	if err != nil {
		slog.Error("error uploading blob", "digest", digest, "path", path, "error", err)
		return http.StatusInternalServerError, nil
	}
	return status, nil
}

func (c *Client) uploadBlob(ctx context.Context, target, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	resp, err := c.uploader().R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetFileReader("file", filepath.Base(path), f).
		Post(target)
	if err != nil {
		return 0, err
	}

	return resp.StatusCode(), nil
}

func (c *Client) blobUploadURL(digest string) string {
	endpoint := endpointBlobs + "/" + digest
	if blobUploadUsesBaseURL {
		return c.endpointURL(endpoint).String()
	}
	return endpoint
}

// uploader returns a resty client sharing the client's transport. The http
// client is copied because resty fills in a missing transport.
func (c *Client) uploader() *resty.Client {
	hc := *c.http
	return resty.NewWithClient(&hc).
		SetHeader("User-Agent", userAgent()).
		SetLogger(restyLogger{})
}

// restyLogger routes resty's own diagnostics to slog.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (restyLogger) Warnf(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (restyLogger) Debugf(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "resty")
}
