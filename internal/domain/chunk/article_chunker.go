package chunk

import (
	"github.com/turtacn/ClauseMatch/internal/domain/document"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// ArticleChunker emits one chunk per Article and one per Exhibit — coarse
// granularity suited for article-level completeness matching.
type ArticleChunker struct {
	contractType string
}

// NewArticleChunker constructs a chunker bound to one contract type.
func NewArticleChunker(contractType string) (*ArticleChunker, error) {
	if contractType == "" {
		return nil, errors.New(errors.ErrCodeContractTypeInvalid, "contract type is empty")
	}
	return &ArticleChunker{contractType: contractType}, nil
}

// Chunk walks the parsed tree in source order and emits a flat chunk list.
// An Article with no nested content still yields exactly one chunk; an
// Exhibit with no recognized content yields a chunk shell with empty body
// rather than being dropped.
func (ac *ArticleChunker) Chunk(res *document.ParseResult) []*Chunk {
	var out []*Chunk
	order := 0

	for _, art := range res.Articles {
		gid := NewGlobalID(ac.contractType, Segment{Item: ItemTypeArticle, Number: art.Number})
		raw := flattenArticle(art)
		out = append(out, &Chunk{
			ID:         gid.LocalID(),
			GlobalID:   gid.String(),
			ParentID:   gid.String(),
			Title:      art.Heading,
			TextNorm:   NormalizeText(raw),
			TextRaw:    raw,
			OrderIndex: order,
			References: extractReferences(ac.contractType, raw, art.Number),
		})
		order++
	}

	for _, ex := range res.Exhibits {
		gid := NewGlobalID(ac.contractType, Segment{Item: ItemTypeExhibit, Number: ex.Number})
		raw := flattenExhibit(ex)
		out = append(out, &Chunk{
			ID:         gid.LocalID(),
			GlobalID:   gid.String(),
			ParentID:   gid.String(),
			Title:      ex.Heading,
			TextNorm:   NormalizeText(raw),
			TextRaw:    raw,
			OrderIndex: order,
		})
		order++
	}

	return out
}

//Personal.AI order the ending
