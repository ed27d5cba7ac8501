// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// mdParser is initialized once and reused. The parser configuration
// never changes and the goldmark Parser is safe to share — parsing
// creates per-call state via Parse(reader).
var (
	mdParser     goldmark.Markdown
	mdParserOnce sync.Once
)

func markdownParser() goldmark.Markdown {
	mdParserOnce.Do(func() {
		mdParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return mdParser
}

// renderMarkdown renders a command description as terminal text. Soft
// line breaks become spaces so hard-wrapped source reflows at any
// width; fenced code blocks keep their line structure and get syntax
// highlighting when color is on.
func renderMarkdown(input string, width int, color bool) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := markdownParser().Parser().Parse(text.NewReader(source))

	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI256
	}
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(profile))
	lipRenderer.SetColorProfile(profile)

	r := &descriptionRenderer{
		source:   source,
		width:    width,
		color:    color,
		renderer: lipRenderer,
	}
	ast.Walk(document, r.walk)
	return strings.TrimRight(r.output.String(), "\n")
}

// descriptionRenderer walks a goldmark AST, accumulating inline
// content per block and word-wrapping it when the block closes. List
// items set a pending bullet consumed by the first flushed line.
type descriptionRenderer struct {
	source   []byte
	width    int
	color    bool
	renderer *lipgloss.Renderer

	output strings.Builder
	inline strings.Builder

	bold   int
	italic int

	listCounters  []int // per nesting level; 0 for unordered
	pendingBullet string
}

func (r *descriptionRenderer) style() lipgloss.Style {
	return r.renderer.NewStyle()
}

// indent returns the leading whitespace for the current list nesting.
func (r *descriptionRenderer) indent() string {
	if len(r.listCounters) == 0 {
		return ""
	}
	return strings.Repeat("  ", len(r.listCounters)-1)
}

// flushBlock wraps the accumulated inline content and writes it with
// the pending bullet (if any) on the first line.
func (r *descriptionRenderer) flushBlock() {
	content := r.inline.String()
	r.inline.Reset()
	if content == "" {
		return
	}

	bullet := r.pendingBullet
	r.pendingBullet = ""
	indent := r.indent()

	width := r.width - len(indent) - len(bullet)
	if width < 10 {
		width = 10
	}
	for i, line := range strings.Split(ansi.Wrap(content, width, " ,.;-+|"), "\n") {
		if i == 0 {
			r.output.WriteString(indent + bullet + line + "\n")
		} else {
			r.output.WriteString(indent + strings.Repeat(" ", len(bullet)) + line + "\n")
		}
	}
}

func (r *descriptionRenderer) styledText(content string) string {
	style := r.style()
	if r.bold > 0 {
		style = style.Bold(true)
	}
	if r.italic > 0 {
		style = style.Italic(true)
	}
	return style.Render(content)
}

func (r *descriptionRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch typed := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			r.inline.Reset()
		} else {
			r.flushBlock()
			if len(r.listCounters) == 0 {
				r.output.WriteString("\n")
			}
		}

	case *ast.Heading:
		if entering {
			r.inline.Reset()
		} else {
			content := ansi.Strip(r.inline.String())
			r.inline.Reset()
			if content != "" {
				r.output.WriteString(r.style().Bold(true).Render(content) + "\n\n")
			}
		}

	case *ast.FencedCodeBlock:
		if entering {
			r.renderCode(typed)
			return ast.WalkSkipChildren, nil
		}

	case *ast.List:
		if entering {
			start := 0
			if typed.IsOrdered() {
				start = typed.Start
			}
			r.listCounters = append(r.listCounters, start)
		} else {
			r.listCounters = r.listCounters[:len(r.listCounters)-1]
			if len(r.listCounters) == 0 {
				r.output.WriteString("\n")
			}
		}

	case *ast.ListItem:
		if entering {
			top := len(r.listCounters) - 1
			if r.listCounters[top] > 0 {
				r.pendingBullet = fmt.Sprintf("%d. ", r.listCounters[top])
				r.listCounters[top]++
			} else {
				r.pendingBullet = "- "
			}
		}

	case *ast.Text:
		if entering {
			r.inline.WriteString(r.styledText(string(typed.Segment.Value(r.source))))
			if typed.SoftLineBreak() {
				r.inline.WriteString(" ")
			}
			if typed.HardLineBreak() {
				r.inline.WriteString("\n")
			}
		}

	case *ast.String:
		if entering {
			r.inline.WriteString(r.styledText(string(typed.Value)))
		}

	case *ast.Emphasis:
		if typed.Level >= 2 {
			if entering {
				r.bold++
			} else {
				r.bold--
			}
		} else {
			if entering {
				r.italic++
			} else {
				r.italic--
			}
		}

	case *ast.CodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(r.source))
				}
			}
			r.inline.WriteString(r.style().Faint(true).Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Link:
		// Link text accumulates through the child Text nodes; the
		// destination trails it on leaving.
		if !entering {
			if url := string(typed.Destination); url != "" {
				r.inline.WriteString(" " + r.style().Faint(true).Render("("+url+")"))
			}
		}

	case *ast.AutoLink:
		if entering {
			r.inline.WriteString(r.style().Faint(true).Render(string(typed.URL(r.source))))
		}
	}

	return ast.WalkContinue, nil
}

// renderCode emits a fenced code block with two-space indentation,
// syntax highlighted through chroma when a language is given and
// color is enabled.
func (r *descriptionRenderer) renderCode(node *ast.FencedCodeBlock) {
	language := string(node.Language(r.source))
	var code strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(r.source))
	}

	rendered := code.String()
	if r.color && language != "" {
		var highlighted strings.Builder
		if err := quick.Highlight(&highlighted, rendered, language, "terminal256", "monokai"); err == nil {
			rendered = highlighted.String()
		}
	}
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		r.output.WriteString(r.indent() + "  " + line + "\n")
	}
	r.output.WriteString("\n")
}
