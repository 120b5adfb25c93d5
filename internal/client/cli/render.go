package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/dmitrijs2005/notetake/internal/client/models"
)

// renderMarkdown formats md for the terminal. Non-terminal output uses
// glamour's plain style so piped output stays free of escape codes.
func renderMarkdown(md string, tty bool) (string, error) {
	opt := glamour.WithStandardStyle("notty")
	if tty {
		opt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func tagLabels(tags []models.Tag) string {
	labels := make([]string, 0, len(tags))
	for _, t := range tags {
		labels = append(labels, "#"+t.Label)
	}
	return strings.Join(labels, " ")
}

func printNotes(w io.Writer, notes []models.Note) error {
	if len(notes) == 0 {
		_, err := fmt.Fprintln(w, "No notes.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTAGS")
	for _, n := range notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.Title, tagLabels(n.Tags))
	}
	return tw.Flush()
}

func printTags(w io.Writer, tags []models.Tag) error {
	if len(tags) == 0 {
		_, err := fmt.Fprintln(w, "No tags.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL")
	for _, t := range tags {
		fmt.Fprintf(tw, "%s\t%s\n", t.ID, t.Label)
	}
	return tw.Flush()
}

// printNote renders a note's header and body.
func printNote(w io.Writer, n models.Note, tty bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.Title)
	if len(n.Tags) > 0 {
		fmt.Fprintf(&b, "%s\n\n", tagLabels(n.Tags))
	}
	b.WriteString(n.Markdown)

	out, err := renderMarkdown(b.String(), tty)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
