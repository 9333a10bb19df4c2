package chunk

import (
	"regexp"
	"strings"

	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// Granularity selects which chunk corpus a caller addresses.
type Granularity string

const (
	GranularityArticle Granularity = "article"
	GranularityClause  Granularity = "clause"
)

func (g Granularity) IsValid() bool {
	return g == GranularityArticle || g == GranularityClause
}

// Chunk is the atomic retrieval unit.  Created once during ingestion,
// immutable thereafter; consumed read-only by embedding, indexing and search.
type Chunk struct {
	// ID is the chunk-local identifier, e.g. "art:005:cla:002".
	ID string `json:"id"`
	// GlobalID is the URN form, e.g. "urn:std:provide:art:005:cla:002".
	// Unique within one contract type's corpus.
	GlobalID string `json:"global_id"`
	// ParentID is the global id of the enclosing Article or Exhibit.  An
	// article-level chunk is its own parent.
	ParentID string `json:"parent_id"`
	// Title is the heading text of the enclosing Article or Exhibit.
	Title string `json:"title"`
	// TextNorm is the normalized body text used for embedding and lexical
	// indexing.  May be empty — downstream code must tolerate empty shells.
	TextNorm string `json:"text_norm"`
	// TextRaw is the original, unnormalized text.
	TextRaw string `json:"text_raw"`
	// OrderIndex is the position of the chunk within its corpus, used as the
	// stable sort key for tie-breaks and re-assembly by parent.
	OrderIndex int `json:"order_index"`
	// References lists global ids of cross-referenced chunks.  Exhibit
	// references and article references are distinguished by URN item type.
	References []string `json:"references,omitempty"`
	// CommentarySummary is optional interpretive commentary attached during
	// corpus authoring.
	CommentarySummary string `json:"commentary_summary,omitempty"`
}

// Validate checks structural consistency of the chunk record.
func (c *Chunk) Validate() error {
	if c.GlobalID == "" {
		return errors.New(errors.ErrCodeChunkInvalid, "chunk has empty global_id")
	}
	if _, err := ParseGlobalID(c.GlobalID); err != nil {
		return errors.Wrap(err, errors.ErrCodeChunkInvalid, "chunk global_id is malformed")
	}
	if c.ParentID == "" {
		return errors.New(errors.ErrCodeChunkInvalid, "chunk has empty parent_id")
	}
	if c.OrderIndex < 0 {
		return errors.New(errors.ErrCodeChunkInvalid, "chunk order_index is negative")
	}
	return nil
}

// IsExhibit reports whether the chunk is an exhibit unit.  Exhibit chunks
// are excluded from embedding and matched by reference instead.
func (c *Chunk) IsExhibit() bool {
	gid, err := ParseGlobalID(c.GlobalID)
	if err != nil {
		return false
	}
	return gid.IsExhibit()
}

// LLMText renders the chunk as prompt-ready text: the heading line followed
// by the raw body.  Exhibits are passed verbatim, never summarized.
func (c *Chunk) LLMText() string {
	var b strings.Builder
	if c.Title != "" {
		b.WriteString(c.Title)
	}
	if c.TextRaw != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(c.TextRaw)
	}
	return b.String()
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeText collapses all whitespace runs to single spaces and trims the
// ends.  The result feeds both the embedder and the lexical index, so it must
// be deterministic for identical input.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

//Personal.AI order the ending
