// Package models defines the client-side data model: tags, notes in their
// stored and resolved forms, image attachments and chat messages.
package models

// Tag is a label notes can carry. Identity is ID; labels may repeat.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Image is an uploaded attachment. PublicID is the storage handle used for
// deletion; URL is what the markdown references.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// RawNote is the persisted form of a note.
type RawNote struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Markdown string   `json:"markdown"`
	TagIDs   []string `json:"tagIds"`
	Images   []Image  `json:"images"`
}

// NoteData is what the editor submits on save.
type NoteData struct {
	Title    string
	Markdown string
	Tags     []Tag
	Images   []Image
}

// TagIDs returns the ids of the selected tags in selection order.
func (d NoteData) TagIDs() []string {
	ids := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// Note is the resolved view of a RawNote: tag ids replaced by the tags they
// name in the current registry.
type Note struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Markdown string  `json:"markdown"`
	Tags     []Tag   `json:"tags"`
	Images   []Image `json:"images"`
}

// HasTag reports whether the note carries the tag with the given id.
func (n Note) HasTag(id string) bool {
	for _, t := range n.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one transcript entry. Never persisted.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Resolve derives the view form of every note against the tag registry.
// Tags come out in registry order; ids missing from the registry are
// dropped. The inputs are not modified.
func Resolve(notes []RawNote, tags []Tag) []Note {
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, ResolveOne(n, tags))
	}
	return out
}

// ResolveOne is Resolve for a single note.
func ResolveOne(n RawNote, tags []Tag) Note {
	wanted := make(map[string]struct{}, len(n.TagIDs))
	for _, id := range n.TagIDs {
		wanted[id] = struct{}{}
	}

	resolved := make([]Tag, 0, len(n.TagIDs))
	for _, t := range tags {
		if _, ok := wanted[t.ID]; ok {
			resolved = append(resolved, t)
		}
	}

	images := make([]Image, len(n.Images))
	copy(images, n.Images)

	return Note{
		ID:       n.ID,
		Title:    n.Title,
		Markdown: n.Markdown,
		Tags:     resolved,
		Images:   images,
	}
}
