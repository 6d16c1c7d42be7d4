// Package source finds diagram text in files.
//
// Diagrams arrive either as standalone files (.mmd, .mermaid) holding one
// diagram, or embedded in Markdown as fenced code blocks. [Extract] walks a
// Markdown document with goldmark and returns every fenced block whose info
// string names a diagram:
//
//	```mermaid            detected from the first line
//	```sequenceDiagram    kind hint, overrides detection
//
// Blocks in any other language are skipped.
package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/deckdown/diagramscene/pkg/diagram"
	errs "github.com/deckdown/diagramscene/pkg/errors"
)

// Block is one diagram found in a file.
type Block struct {
	// Name identifies the block in logs and output file names, e.g.
	// "README.md#2" for the second diagram of README.md.
	Name string
	// Hint is the kind named by the fence, or "" to detect it.
	Hint string
	// Text is the block content.
	Text string
	// Line is the 1-based line of the first content line.
	Line int
}

// fenceLanguages are info strings that mark a diagram without naming its
// kind.
var fenceLanguages = map[string]bool{
	"mermaid": true,
	"mmd":     true,
	"diagram": true,
}

// Hint maps a fence info string to a kind hint. ok is false when the fence
// does not hold a diagram.
func Hint(info string) (hint string, ok bool) {
	lang, _, _ := strings.Cut(strings.TrimSpace(info), " ")
	lang = strings.Trim(lang, "{}")
	if lang == "" {
		return "", false
	}
	if fenceLanguages[strings.ToLower(lang)] {
		return "", true
	}
	if diagram.KeywordKind(lang) != diagram.Unknown {
		return lang, true
	}
	return "", false
}

// Extract returns the diagram blocks of a Markdown document in document
// order. name prefixes the block names.
func Extract(src []byte, name string) []Block {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		var info string
		if fcb.Info != nil {
			info = string(fcb.Info.Segment.Value(src))
		}
		hint, ok := Hint(info)
		if !ok {
			return ast.WalkSkipChildren, nil
		}

		var buf bytes.Buffer
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		line := 0
		if lines.Len() > 0 {
			line = bytes.Count(src[:lines.At(0).Start], []byte("\n")) + 1
		}
		blocks = append(blocks, Block{
			Name: fmt.Sprintf("%s#%d", name, len(blocks)+1),
			Hint: hint,
			Text: buf.String(),
			Line: line,
		})
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// IsMarkdown reports whether path names a Markdown file.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdx":
		return true
	}
	return false
}

// Load reads path and returns its diagrams. Markdown files yield one block
// per diagram fence; any other file is a single diagram, with the
// extension as hint when it names a kind.
func Load(path string) ([]Block, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	if IsMarkdown(path) {
		return Extract(data, base), nil
	}
	hint, _ := Hint(strings.TrimPrefix(filepath.Ext(path), "."))
	return []Block{{Name: base, Hint: hint, Text: string(data), Line: 1}}, nil
}
