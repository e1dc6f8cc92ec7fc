package markdown_test

import (
	"testing"

	"github.com/jot/notes-backend/internal/markdown"
	"github.com/stretchr/testify/assert"
)

func TestRenderer(t *testing.T) {
	r := markdown.NewRenderer()

	tests := []struct {
		name        string
		source      string
		contains    []string
		notContains []string
	}{
		{
			name:     "headings and emphasis",
			source:   "# Title\n\nsome **bold** text",
			contains: []string{"<h1", "<strong>bold</strong>"},
		},
		{
			name:     "gfm tables",
			source:   "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "gfm strikethrough",
			source:   "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:        "script tags are stripped",
			source:      "hello <script>alert(1)</script> world",
			contains:    []string{"hello"},
			notContains: []string{"<script>", "alert(1)"},
		},
		{
			name:        "event handlers are stripped",
			source:      `<img src="x.png" onerror="alert(1)">`,
			notContains: []string{"onerror"},
		},
		{
			name:     "images survive the policy",
			source:   "![alt](https://example.com/x.png)",
			contains: []string{"<img", `src="https://example.com/x.png"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.Render(tt.source)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, not := range tt.notContains {
				assert.NotContains(t, out, not)
			}
		})
	}
}

func TestRendererExternalLinks(t *testing.T) {
	r := markdown.NewRenderer()

	out := r.Render("[site](https://example.com)")
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, "noreferrer")
}
