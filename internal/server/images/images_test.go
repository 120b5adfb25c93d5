package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowList(t *testing.T) {
	a := NewAllowList([]string{"jpg", ".PNG", " gif ", ""})

	tests := []struct {
		name        string
		file        string
		contentType string
		want        bool
	}{
		{name: "jpg", file: "cat.jpg", contentType: "image/jpeg", want: true},
		{name: "upper ext", file: "CAT.PNG", contentType: "image/png", want: true},
		{name: "nested path", file: "dir/cat.gif", contentType: "image/gif", want: true},
		{name: "not allowed ext", file: "cat.webp", contentType: "image/webp", want: false},
		{name: "not image type", file: "cat.jpg", contentType: "text/plain", want: false},
		{name: "no ext", file: "cat", contentType: "image/png", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Allows(tt.file, tt.contentType))
		})
	}
}

func TestAllowList_Empty(t *testing.T) {
	assert.False(t, NewAllowList(nil).Allows("a.png", "image/png"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "photo", BaseName("photo.final.jpg"))
	assert.Equal(t, "photo", BaseName("C:\\pics\\photo.png"))
	assert.Equal(t, "photo", BaseName("a/b/photo"))
	assert.Equal(t, "", BaseName(".png"))
	assert.Equal(t, "", BaseName(""))
}
