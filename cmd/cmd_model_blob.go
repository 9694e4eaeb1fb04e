// cmd_model_blob.go - Blob Commands: Existenz-Pruefung und Datei-Upload
// Hauptfunktionen: BlobExistsHandler, BlobUploadHandler, fileDigest
package cmd

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxParallelUploads - Obergrenze gleichzeitiger Uploads
const maxParallelUploads = 4

// BlobExistsHandler - Prueft ob ein Blob auf dem Server existiert
func BlobExistsHandler(cmd *cobra.Command, args []string) error {
	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	if !client.BlobExists(cmd.Context(), args[0]) {
		return fmt.Errorf("blob %s not found", args[0])
	}

	fmt.Fprintln(cmd.OutOrStdout(), "exists")
	return nil
}

// BlobUploadHandler - Laedt eine oder mehrere Dateien als Blobs hoch.
// Der Digest wird aus dem Dateiinhalt berechnet, ausser --digest ist gesetzt.
func BlobUploadHandler(cmd *cobra.Command, args []string) error {
	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	digest, _ := cmd.Flags().GetString("digest")
	if digest != "" && len(args) > 1 {
		return errors.New("--digest can only be used with a single file")
	}

	var mu sync.Mutex
	out := cmd.OutOrStdout()

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxParallelUploads)
	for _, path := range args {
		g.Go(func() error {
			d := digest
			if d == "" {
				var err error
				if d, err = fileDigest(path); err != nil {
					return errors.Wrapf(err, "digest %s", path)
				}
			}

			status, err := client.CreateBlob(ctx, d, path)
			if err != nil {
				return err
			}
			if status != http.StatusOK && status != http.StatusCreated {
				return errors.Errorf("upload %s: status %d", path, status)
			}

			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "%s %s\n", d, filepath.Base(path))
			return nil
		})
	}

	return g.Wait()
}

// fileDigest - Berechnet den SHA256-Digest einer Datei im Format "sha256:<hex>"
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// newBlobCmd - Erstellt den blob Command mit Unterbefehlen
func newBlobCmd() *cobra.Command {
	blobCmd := &cobra.Command{
		Use:   "blob",
		Short: "Check for or upload blobs",
	}

	existsCmd := &cobra.Command{
		Use:   "exists DIGEST",
		Short: "Check whether a blob exists on the server",
		Args:  cobra.ExactArgs(1),
		RunE:  BlobExistsHandler,
	}

	uploadCmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload files as blobs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  BlobUploadHandler,
	}
	uploadCmd.Flags().String("digest", "", "Expected SHA256 digest (computed from the file if empty)")

	blobCmd.AddCommand(existsCmd, uploadCmd)
	return blobCmd
}
