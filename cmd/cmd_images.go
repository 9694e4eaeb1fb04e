// cmd_images.go - Bildanhaenge fuer Chat-Nachrichten
// Hauptfunktionen: messageWithImages, extractImagePaths, readImage
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/ollama/ollama-client/api"
)

// maxImageSize - Groessere Bilder werden abgelehnt
const maxImageSize = 100 << 20

var (
	// Pfade beginnen mit optionalem Laufwerk, / ./ oder \ und enden auf eine Bild-Endung.
	// Treffer, die keine Datei sind, werden spaeter verworfen.
	imagePathPattern = regexp.MustCompile(`(?:[a-zA-Z]:)?(?:\./|/|\\)[\S\\ ]+?\.(?i:jpg|jpeg|png|webp)\b`)

	imageTypes = []string{"image/jpeg", "image/png", "image/webp"}

	unescapePath = strings.NewReplacer(
		"\\ ", " ",
		"\\(", "(",
		"\\)", ")",
		"\\[", "[",
		"\\]", "]",
		"\\'", "'",
		"\\\\", "\\",
	)
)

// extractImagePaths - Findet moegliche Bildpfade in einer Nachricht
func extractImagePaths(content string) []string {
	return imagePathPattern.FindAllString(content, -1)
}

// messageWithImages - Baut eine Nachricht und haengt gefundene Bilder an.
// Die Pfade werden aus dem Text entfernt, nicht existierende Dateien ignoriert.
func messageWithImages(role, content string) (api.Message, error) {
	msg := api.Message{Role: role}

	for _, match := range extractImagePaths(content) {
		path := unescapePath.Replace(match)

		data, err := readImage(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return msg, fmt.Errorf("image %s: %w", path, err)
		}

		slog.Debug("attached image", "path", path, "size", len(data))
		content = strings.ReplaceAll(content, "'"+path+"'", "")
		content = strings.ReplaceAll(content, "'"+match+"'", "")
		content = strings.ReplaceAll(content, match, "")
		msg.Images = append(msg.Images, data)
	}

	msg.Content = strings.TrimSpace(content)
	return msg, nil
}

// readImage - Liest eine Bilddatei und prueft Typ und Groesse
func readImage(path string) (api.ImageData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > maxImageSize {
		return nil, errors.New("file size exceeds maximum limit (100MB)")
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	if contentType := http.DetectContentType(data); !slices.Contains(imageTypes, contentType) {
		return nil, fmt.Errorf("invalid image type: %s", contentType)
	}
	return data, nil
}
