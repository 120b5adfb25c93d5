package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/notetake/internal/client/attachments"
	"github.com/dmitrijs2005/notetake/internal/client/editor"
	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/dmitrijs2005/notetake/internal/common"
)

// openFile is a test seam for reading attachments from disk.
var openFile = func(path string) (io.ReadCloser, error) { return os.Open(path) }

type tagLister interface {
	List(ctx context.Context) ([]models.Tag, error)
}

// editorShell binds an editor to the REPL's input and output.
type editorShell struct {
	ed   *editor.Editor
	tags tagLister
	in   *bufio.Reader
	out  io.Writer
	tty  bool
}

func (s *editorShell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *editorShell) prompt() string {
	name := s.ed.Title()
	if name == "" {
		name = "untitled"
	}
	if s.ed.IsNew() {
		return fmt.Sprintf("new:%s> ", name)
	}
	return fmt.Sprintf("%s> ", name)
}

const editorHelp = `Commands:
  title [text]          set the title (prompts when text is omitted)
  tag <label>           select a tag, creating it when no tag has that label
  untag <label|id>      unselect a tag
  tags                  show selected and available tags
  body                  replace the body (multi-line input)
  append <text>         add a line to the body
  attach <path> [pos]   upload an image; insert at byte offset pos or append
  detach <public_id>    remove an image and its references
  images                list attached images
  preview               render the draft
  save                  save and leave
  cancel | exit         leave without saving`

// runEditorREPL is the interactive loop of "note new" and "note edit".
//
// The first token of each line selects the command. Handler errors are
// printed and the loop continues; only save and cancel (or EOF) end the
// session. Uploads of an abandoned session stay recorded and are deleted the
// next time an editor opens.
func runEditorREPL(ctx context.Context, s *editorShell) error {
	s.println("Editing note (type 'help' for commands)")
	for {
		fmt.Fprint(s.out, s.prompt())
		line, err := s.in.ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			if errors.Is(err, io.EOF) {
				s.println()
				return nil
			}
			return err
		}

		cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "":
			continue

		case "help":
			s.println(editorHelp)

		case "title":
			s.setTitle(rest)

		case "tag":
			s.tag(ctx, rest)

		case "untag":
			s.untag(rest)

		case "tags":
			s.listTags(ctx)

		case "body":
			s.body()

		case "append":
			s.ed.AppendLine(rest)

		case "attach":
			s.attach(ctx, rest)

		case "detach":
			if rest == "" {
				s.println("Usage: detach <public_id>")
				continue
			}
			s.ed.Detach(ctx, rest)

		case "images":
			s.listImages()

		case "preview":
			s.preview()

		case "save":
			id, err := s.ed.Submit(ctx)
			if err != nil && id != "" {
				s.println("Saved", id, "but uploads are still marked pending:", err)
				s.println("Run save again before leaving.")
				continue
			}
			if err != nil {
				s.println(validationMessage(err))
				continue
			}
			s.println("Saved", id)
			return nil

		case "cancel", "exit", "quit":
			if s.leave(ctx) {
				return nil
			}

		default:
			s.println("Unknown command:", cmd)
		}
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrTitleRequired):
		return "A title is required."
	case errors.Is(err, common.ErrBodyRequired):
		return "The body is empty."
	default:
		return "Error: " + err.Error()
	}
}

func (s *editorShell) setTitle(title string) {
	if title == "" {
		t, err := GetSimpleText(s.in, "Title", s.out)
		if err != nil {
			return
		}
		title = t
	}
	s.ed.SetTitle(title)
}

func (s *editorShell) tag(ctx context.Context, label string) {
	if label == "" {
		s.println("Usage: tag <label>")
		return
	}
	tag, err := s.ed.SelectLabel(ctx, label)
	if err != nil {
		s.println("Error:", err)
		return
	}
	s.println("Tagged", "#"+tag.Label)
}

func (s *editorShell) untag(ref string) {
	for _, t := range s.ed.SelectedTags() {
		if t.ID == ref || t.Label == ref {
			s.ed.Unselect(t.ID)
			return
		}
	}
	s.println("Not selected:", ref)
}

func (s *editorShell) listTags(ctx context.Context) {
	s.println("Selected:", tagLabels(s.ed.SelectedTags()))
	all, err := s.tags.List(ctx)
	if err != nil {
		s.println("Error:", err)
		return
	}
	s.println("Available:", tagLabels(all))
}

func (s *editorShell) body() {
	md, err := GetMultiline(s.in, "Body (markdown)", s.out)
	if err != nil {
		s.println("Error:", err)
		return
	}
	s.ed.SetMarkdown(md)
}

func (s *editorShell) attach(ctx context.Context, args string) {
	path, sel := splitAttachArgs(args)
	if path == "" {
		s.println("Usage: attach <path> [pos]")
		return
	}

	f, err := openFile(path)
	if err != nil {
		s.println("Error:", err)
		return
	}
	defer f.Close()

	img, err := s.ed.Attach(ctx, filepath.Base(path), f, sel)
	if err != nil {
		s.println("Upload failed:", err)
		return
	}
	s.println("Attached", img.PublicID, img.URL)
}

// splitAttachArgs takes a trailing integer as the insert position; the rest,
// spaces included, is the path.
func splitAttachArgs(args string) (string, *attachments.Selection) {
	path := strings.TrimSpace(args)
	i := strings.LastIndexAny(path, " \t")
	if i < 0 {
		return path, nil
	}
	pos, err := strconv.Atoi(path[i+1:])
	if err != nil {
		return path, nil
	}
	return strings.TrimSpace(path[:i]), &attachments.Selection{Start: pos, End: pos}
}

func (s *editorShell) listImages() {
	images := s.ed.Images()
	if len(images) == 0 {
		s.println("No images.")
		return
	}
	for _, img := range images {
		s.println(img.PublicID, img.URL)
	}
}

func (s *editorShell) preview() {
	n := models.Note{Title: s.ed.Title(), Markdown: s.ed.Markdown(), Tags: s.ed.SelectedTags()}
	if err := printNote(s.out, n, s.tty); err != nil {
		s.println("Error:", err)
	}
}

// leave asks before discarding unsaved work and reports whether to exit.
func (s *editorShell) leave(ctx context.Context) bool {
	dirty, err := s.ed.HasUnsavedWork(ctx)
	if err != nil || !dirty {
		return true
	}
	return Confirm(s.in, "Discard unsaved changes?", s.out)
}
