package chunk

import (
	"fmt"
	"strings"

	"github.com/turtacn/ClauseMatch/internal/domain/document"
)

// flattenNodes renders structural nodes back to text lines, re-emitting the
// numbering markers so the flattened body reproduces every original fragment
// in source order.
func flattenNodes(nodes []document.Node) []string {
	var lines []string
	for _, n := range nodes {
		switch v := n.(type) {
		case *document.Clause:
			line := string(document.CircledDigitGlyph(v.Number))
			if v.Text != "" {
				line += " " + v.Text
			}
			lines = append(lines, line)
			lines = append(lines, flattenNodes(v.Content)...)
		case *document.SubClause:
			line := fmt.Sprintf("%d.", v.Number)
			if v.Text != "" {
				line += " " + v.Text
			}
			lines = append(lines, line)
			lines = append(lines, flattenNodes(v.Content)...)
		case *document.SubSubClause:
			line := fmt.Sprintf("%c.", document.KoreanOrdinalGlyph(v.Number))
			if v.Text != "" {
				line += " " + v.Text
			}
			lines = append(lines, line)
		case *document.Table:
			if t := v.FlattenText(); t != "" {
				lines = append(lines, t)
			}
		case *document.PlainText:
			if v.Text != "" {
				lines = append(lines, v.Text)
			}
		}
	}
	return lines
}

// flattenArticle renders an Article's full body (everything below the
// heading) as raw text.
func flattenArticle(a *document.Article) string {
	return strings.Join(flattenNodes(a.Content), "\n")
}

// flattenExhibit renders an Exhibit's body as raw text.
func flattenExhibit(e *document.Exhibit) string {
	return strings.Join(flattenNodes(e.Content), "\n")
}

//Personal.AI order the ending
