package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodeBlock represents a fenced code block found in markdown content.
type CodeBlock struct {
	// Lang is the language identifier of the code block (e.g., "ts").
	Lang string
	// Start and Stop are the byte offsets of the block body in the source,
	// from the first content line up to the closing fence.
	Start, Stop int
}

// ExtractCodeBlocks uses a markdown AST to find all fenced code blocks with
// a non-empty body, in source order.
func ExtractCodeBlocks(source []byte) ([]CodeBlock, error) {
	var blocks []CodeBlock
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		lines := fenced.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		block := CodeBlock{
			Start: lines.At(0).Start,
			Stop:  lines.At(lines.Len() - 1).Stop,
		}
		if fenced.Info != nil {
			block.Lang = strings.TrimSpace(string(fenced.Info.Segment.Value(source)))
		}
		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	return blocks, nil
}

// RewriteCodeBlocks replaces the body of every fenced code block with
// fix(body). It reports false when the content has no code blocks, in
// which case content is returned unchanged.
func RewriteCodeBlocks(content string, fix func(string) string) (string, bool, error) {
	source := []byte(content)
	blocks, err := ExtractCodeBlocks(source)
	if err != nil {
		return "", false, err
	}
	if len(blocks) == 0 {
		return content, false, nil
	}

	var b strings.Builder
	last := 0
	for _, block := range blocks {
		b.WriteString(content[last:block.Start])
		b.WriteString(fix(content[block.Start:block.Stop]))
		last = block.Stop
	}
	b.WriteString(content[last:])
	return b.String(), true, nil
}
