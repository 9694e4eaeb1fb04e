// cmd_model_create.go - Model-Erstellung aus einem Modelfile
// Hauptfunktionen: CreateHandler, getModelfileName, uploadModelfileFiles
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ollama/ollama-client/api"
	"github.com/ollama/ollama-client/parser"
)

var errModelfileNotFound = errors.New("specified Modelfile wasn't found")

// getModelfileName - Findet den Modelfile-Pfad
func getModelfileName(cmd *cobra.Command) (string, error) {
	filename, _ := cmd.Flags().GetString("file")

	if filename == "" {
		filename = "Modelfile"
	}

	absName, err := filepath.Abs(filename)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(absName); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errModelfileNotFound
		}
		return "", err
	}

	return absName, nil
}

// CreateHandler - Erstellt ein neues Modell
//
// Ohne --path wird das lokale Modelfile gelesen und inline gesendet,
// mit --path verweist der Server selbst auf die Datei.
func CreateHandler(cmd *cobra.Command, args []string) error {
	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	stream, _ := cmd.Flags().GetBool("stream")
	path, _ := cmd.Flags().GetString("path")

	req := api.CreateRequest{Name: args[0], Stream: stream, Path: path}
	if path == "" {
		filename, err := getModelfileName(cmd)
		if err != nil {
			return err
		}

		modelfile, err := os.ReadFile(filename)
		if err != nil {
			return pkgerrors.Wrap(err, "read Modelfile")
		}
		req.Modelfile = string(modelfile)

		if upload, _ := cmd.Flags().GetBool("upload-files"); upload {
			if req.Modelfile, err = uploadModelfileFiles(cmd, client, filename, modelfile); err != nil {
				return err
			}
		}
	}

	resp, err := client.Create(cmd.Context(), &req)
	if err != nil {
		return err
	}

	if rawOutput(cmd) {
		return writeResponse(cmd, resp, "create")
	}
	if err := checkResponse(resp, "create"); err != nil {
		return err
	}

	p := newProgressPrinter(cmd)
	for line := range resp.Lines() {
		if err := p.print(line); err != nil {
			return err
		}
	}
	p.done()
	fmt.Fprintf(cmd.OutOrStdout(), "created '%s'\n", args[0])
	return nil
}

// uploadModelfileFiles - Laedt lokale FROM- und ADAPTER-Dateien als Blobs hoch
// und gibt das Modelfile mit "@sha256:..." Verweisen zurueck
func uploadModelfileFiles(cmd *cobra.Command, client *api.Client, filename string, content []byte) (string, error) {
	mf, err := parser.ParseFile(bytes.NewReader(content))
	if err != nil {
		return "", pkgerrors.Wrap(err, filepath.Base(filename))
	}

	if _, err := mf.Parameters(); err != nil {
		return "", pkgerrors.Wrap(err, filepath.Base(filename))
	}

	files, err := mf.LocalFiles(filepath.Dir(filename))
	if err != nil {
		return "", err
	}

	for _, f := range files {
		if client.BlobExists(cmd.Context(), f.Digest) {
			slog.Debug("blob already on server", "path", f.Path, "digest", f.Digest)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "uploading %s\n", f.Digest)
		status, err := client.CreateBlob(cmd.Context(), f.Digest, f.Path)
		if err != nil {
			return "", err
		}
		if status != http.StatusOK && status != http.StatusCreated {
			return "", pkgerrors.Errorf("upload %s: status %d", f.Path, status)
		}
	}

	mf.ReplaceFiles(files)
	return mf.String(), nil
}

// newCreateCmd - Erstellt den create Command
func newCreateCmd() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create MODEL",
		Short: "Create a model from a Modelfile",
		Args:  cobra.ExactArgs(1),
		RunE:  CreateHandler,
	}

	createCmd.Flags().StringP("file", "f", "", "Name of the Modelfile (default \"Modelfile\")")
	createCmd.Flags().String("path", "", "Path of a Modelfile on the server instead of a local file")
	createCmd.Flags().Bool("stream", false, "Ask the server for streamed progress")
	createCmd.Flags().Bool("upload-files", false, "Upload local FROM and ADAPTER files as blobs first")

	return createCmd
}
