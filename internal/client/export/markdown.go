package export

import (
	"bytes"
	"fmt"

	"github.com/dmitrijs2005/notetake/internal/client/models"
	"gopkg.in/yaml.v3"
)

type frontmatter struct {
	ID     string        `yaml:"id"`
	Title  string        `yaml:"title"`
	Tags   []string      `yaml:"tags,omitempty"`
	Images []imageRecord `yaml:"images,omitempty"`
}

type imageRecord struct {
	URL      string `yaml:"url"`
	PublicID string `yaml:"public_id"`
}

// Markdown returns the note body prefixed with YAML frontmatter carrying its
// id, title, tag labels and images.
func Markdown(note models.Note) (string, error) {
	fm := frontmatter{ID: note.ID, Title: note.Title}
	for _, t := range note.Tags {
		fm.Tags = append(fm.Tags, t.Label)
	}
	for _, img := range note.Images {
		fm.Images = append(fm.Images, imageRecord{URL: img.URL, PublicID: img.PublicID})
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	b.WriteString("---\n\n")
	b.WriteString(note.Markdown)
	if note.Markdown != "" && note.Markdown[len(note.Markdown)-1] != '\n' {
		b.WriteByte('\n')
	}
	return b.String(), nil
}
