package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown_Render(t *testing.T) {
	md := NewMarkdown()

	tests := []struct {
		name     string
		source   string
		contains []string
		excludes []string
	}{
		{
			name:     "headings and paragraphs",
			source:   "# Title\n\nHello **world**",
			contains: []string{"<h1", "Title</h1>", "<strong>world</strong>"},
		},
		{
			name:     "fenced code is escaped",
			source:   "```\n<b>x</b>\n```",
			contains: []string{"<pre><code>", "&lt;b&gt;x&lt;/b&gt;"},
		},
		{
			name:     "gfm table",
			source:   "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "strikethrough",
			source:   "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:     "task list",
			source:   "- [x] done",
			contains: []string{`type="checkbox"`, "checked"},
		},
		{
			name:     "script stripped",
			source:   "hi <script>alert(1)</script>",
			excludes: []string{"<script", "alert(1)</script>"},
		},
		{
			name:     "javascript links stripped",
			source:   "[x](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := md.Render(tt.source)
			require.NoError(t, err)
			html := string(out)
			for _, s := range tt.contains {
				assert.Contains(t, html, s)
			}
			for _, s := range tt.excludes {
				assert.False(t, strings.Contains(html, s), "unexpected %q in %s", s, html)
			}
		})
	}
}
