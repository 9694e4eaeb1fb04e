// cmd_progress.go - Fortschrittsanzeige fuer pull, push und create
// Hauptfunktionen: newProgressPrinter, progressPrinter.print
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ollama/ollama-client/api"
	"github.com/ollama/ollama-client/logutil"
)

// progressPrinter - Gibt Status-Zeilen aus; im Terminal wird die Zeile ueberschrieben
type progressPrinter struct {
	w    io.Writer
	tty  bool
	last string
}

// newProgressPrinter - Erstellt einen Printer fuer die Ausgabe des Commands
func newProgressPrinter(cmd *cobra.Command) *progressPrinter {
	w := cmd.OutOrStdout()

	var tty bool
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}

	return &progressPrinter{w: w, tty: tty}
}

// print - Dekodiert eine Zeile und gibt den Status aus
func (p *progressPrinter) print(line []byte) error {
	logutil.Trace("progress", "line", string(line))

	var resp api.ProgressResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return errors.Wrap(err, "decode progress")
	}

	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(line, &errResp) == nil && errResp.Error != "" {
		p.done()
		return errors.New(errResp.Error)
	}

	status := resp.Status
	if resp.Total > 0 {
		status = fmt.Sprintf("%s %s/%s %d%%", resp.Status,
			humanize.Bytes(uint64(max(resp.Completed, 0))), humanize.Bytes(uint64(resp.Total)),
			100*resp.Completed/resp.Total)
	}

	if status == p.last {
		return nil
	}

	if p.tty {
		fmt.Fprintf(p.w, "\r\033[K%s", status)
	} else {
		fmt.Fprintln(p.w, status)
	}
	p.last = status
	return nil
}

// done - Schliesst eine ueberschriebene Terminal-Zeile ab
func (p *progressPrinter) done() {
	if p.tty && p.last != "" {
		fmt.Fprintln(p.w)
		p.last = ""
	}
}
