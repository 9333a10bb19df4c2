package chunk

import (
	"strings"

	"github.com/turtacn/ClauseMatch/internal/domain/document"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// ClauseChunker emits one chunk per Clause and per clause-less SubClause —
// fine granularity suited for sub-item-level matching.  Every chunk's
// ParentID points at the enclosing Article so the aggregator can regroup
// hits by standard article.
type ClauseChunker struct {
	contractType string
}

// NewClauseChunker constructs a chunker bound to one contract type.
func NewClauseChunker(contractType string) (*ClauseChunker, error) {
	if contractType == "" {
		return nil, errors.New(errors.ErrCodeContractTypeInvalid, "contract type is empty")
	}
	return &ClauseChunker{contractType: contractType}, nil
}

// Chunk walks the parsed tree in source order.  An Article with no clause or
// sub-clause children is retained as a single article-level chunk — an empty,
// always-losing candidate rather than a silent omission — so every standard
// article stays addressable at this granularity.  Exhibits are article-level
// units and are not re-chunked here.
func (cc *ClauseChunker) Chunk(res *document.ParseResult) []*Chunk {
	var out []*Chunk
	order := 0

	for _, art := range res.Articles {
		artID := NewGlobalID(cc.contractType, Segment{Item: ItemTypeArticle, Number: art.Number})
		emitted := false

		for _, n := range art.Content {
			switch v := n.(type) {
			case *document.Clause:
				gid := NewGlobalID(cc.contractType,
					Segment{Item: ItemTypeArticle, Number: art.Number},
					Segment{Item: ItemTypeClause, Number: v.Number},
				)
				raw := clauseRawText(v)
				out = append(out, cc.newChunk(gid, artID, art, raw, order))
				order++
				emitted = true
			case *document.SubClause:
				// Clause-less sub-items are legal and chunked individually.
				gid := NewGlobalID(cc.contractType,
					Segment{Item: ItemTypeArticle, Number: art.Number},
					Segment{Item: ItemTypeSubClause, Number: v.Number},
				)
				raw := subClauseRawText(v)
				out = append(out, cc.newChunk(gid, artID, art, raw, order))
				order++
				emitted = true
			}
		}

		if !emitted {
			raw := flattenArticle(art)
			out = append(out, cc.newChunk(artID, artID, art, raw, order))
			order++
		}
	}

	return out
}

func (cc *ClauseChunker) newChunk(gid, parent GlobalID, art *document.Article, raw string, order int) *Chunk {
	return &Chunk{
		ID:         gid.LocalID(),
		GlobalID:   gid.String(),
		ParentID:   parent.String(),
		Title:      art.Heading,
		TextNorm:   NormalizeText(raw),
		TextRaw:    raw,
		OrderIndex: order,
		References: extractReferences(cc.contractType, raw, art.Number),
	}
}

// clauseRawText renders a clause's own text plus all nested content.
func clauseRawText(c *document.Clause) string {
	lines := make([]string, 0, 1+len(c.Content))
	if c.Text != "" {
		lines = append(lines, c.Text)
	}
	lines = append(lines, flattenNodes(c.Content)...)
	return strings.Join(lines, "\n")
}

// subClauseRawText renders a sub-clause's own text plus nested sub-sub items.
func subClauseRawText(s *document.SubClause) string {
	lines := make([]string, 0, 1+len(s.Content))
	if s.Text != "" {
		lines = append(lines, s.Text)
	}
	lines = append(lines, flattenNodes(s.Content)...)
	return strings.Join(lines, "\n")
}

//Personal.AI order the ending
