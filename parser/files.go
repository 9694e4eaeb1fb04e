// Package parser - Modelfile-Parser fuer den create Command
// Modul files: Lokale Dateien in FROM und ADAPTER finden und hashen
package parser

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// LocalFile is a FROM or ADAPTER argument that names a file on this machine.
type LocalFile struct {
	// Index is the position of the command in Modelfile.Commands.
	Index  int
	Path   string
	Digest string
}

// LocalFiles returns the FROM and ADAPTER commands whose argument is an
// existing regular file, with their SHA256 digests. Relative paths are
// resolved against relativeDir. Arguments that are not files, such as model
// names, are skipped.
func (f Modelfile) LocalFiles(relativeDir string) ([]LocalFile, error) {
	var files []LocalFile
	for i, c := range f.Commands {
		if c.Name != "model" && c.Name != "adapter" {
			continue
		}
		if strings.HasPrefix(c.Args, "@") {
			continue
		}

		path, err := expandPath(c.Args, relativeDir)
		if err != nil {
			return nil, err
		}

		fi, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, err
		}
		if fi.IsDir() {
			return nil, fmt.Errorf("%s: directories are not supported", c.Args)
		}

		files = append(files, LocalFile{Index: i, Path: path})
	}

	var g errgroup.Group
	g.SetLimit(max(runtime.GOMAXPROCS(0)-1, 1))
	for i := range files {
		g.Go(func() error {
			digest, err := digestForFile(files[i].Path)
			if err != nil {
				return err
			}

			files[i].Digest = digest
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

// ReplaceFiles points the commands of files at their uploaded blobs.
func (f *Modelfile) ReplaceFiles(files []LocalFile) {
	for _, lf := range files {
		f.Commands[lf.Index].Args = "@" + lf.Digest
	}
}

func digestForFile(filename string) (string, error) {
	path, err := filepath.EvalSymlinks(filename)
	if err != nil {
		return "", err
	}

	bin, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer bin.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, bin); err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func expandPathImpl(path, relativeDir string, currentUserFunc func() (*user.User, error), lookupUserFunc func(string) (*user.User, error)) (string, error) {
	if filepath.IsAbs(path) || strings.HasPrefix(path, "\\") || strings.HasPrefix(path, "/") {
		return filepath.Abs(path)
	} else if strings.HasPrefix(path, "~") {
		var homeDir string

		if path == "~" || strings.HasPrefix(path, "~/") {
			currentUser, err := currentUserFunc()
			if err != nil {
				return "", fmt.Errorf("failed to get current user: %w", err)
			}
			homeDir = currentUser.HomeDir
			path = strings.TrimPrefix(path, "~")
		} else {
			parts := strings.SplitN(path[1:], "/", 2)
			userInfo, err := lookupUserFunc(parts[0])
			if err != nil {
				return "", fmt.Errorf("failed to find user '%s': %w", parts[0], err)
			}
			homeDir = userInfo.HomeDir
			if len(parts) > 1 {
				path = "/" + parts[1]
			} else {
				path = ""
			}
		}

		path = filepath.Join(homeDir, path)
	} else {
		path = filepath.Join(relativeDir, path)
	}

	return filepath.Abs(path)
}

func expandPath(path, relativeDir string) (string, error) {
	return expandPathImpl(path, relativeDir, user.Current, user.Lookup)
}
