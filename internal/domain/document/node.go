// Package document parses raw standard-contract documents into a typed
// structural tree: Articles with nested Clauses, SubClauses and
// SubSubClauses, plus top-level Exhibits and embedded Tables.  Chapters are
// recognized during the scan but never surface in output.
package document

// NodeType identifies the concrete variant of a structural node.
type NodeType uint8

const (
	NodeTypeUnknown      NodeType = 0
	NodeTypeArticle      NodeType = 1
	NodeTypeClause       NodeType = 2
	NodeTypeSubClause    NodeType = 3
	NodeTypeSubSubClause NodeType = 4
	NodeTypeExhibit      NodeType = 5
	NodeTypeTable        NodeType = 6
	NodeTypePlainText    NodeType = 7
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeArticle:
		return "Article"
	case NodeTypeClause:
		return "Clause"
	case NodeTypeSubClause:
		return "SubClause"
	case NodeTypeSubSubClause:
		return "SubSubClause"
	case NodeTypeExhibit:
		return "Exhibit"
	case NodeTypeTable:
		return "Table"
	case NodeTypePlainText:
		return "PlainText"
	default:
		return "Unknown"
	}
}

func (t NodeType) IsValid() bool {
	return t >= NodeTypeArticle && t <= NodeTypePlainText
}

// Node is the closed set of structural tree variants.  Consumers switch on
// Type() and must handle every variant explicitly.
type Node interface {
	Type() NodeType
}

// Article is a numbered top-level unit ("제N조(제목)").  Chapters are not
// containers: every Article is appended directly to the document-level list.
type Article struct {
	Number  int    `json:"number"`
	Heading string `json:"heading"`
	Content []Node `json:"content,omitempty"`
}

func (a *Article) Type() NodeType { return NodeTypeArticle }

// Clause is a circled-digit-numbered unit (①–⑳) nested under an Article.
type Clause struct {
	Number  int    `json:"number"`
	Text    string `json:"text"`
	Content []Node `json:"content,omitempty"`
}

func (c *Clause) Type() NodeType { return NodeTypeClause }

// SubClause is a digit-dot-numbered unit ("1.", "2.") nested under an
// Article or a Clause.  Clause-less sub-items are legal.
type SubClause struct {
	Number  int    `json:"number"`
	Text    string `json:"text"`
	Content []Node `json:"content,omitempty"`
}

func (s *SubClause) Type() NodeType { return NodeTypeSubClause }

// SubSubClause is a Korean-ordinal-dot-numbered leaf ("가.", "나.") nested
// under a SubClause.
type SubSubClause struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

func (s *SubSubClause) Type() NodeType { return NodeTypeSubSubClause }

// Exhibit is a top-level attachment section ("[별표 N]"), sibling to
// Articles.  It owns every unit that follows it until the next Exhibit
// marker or document end.
type Exhibit struct {
	Number  int    `json:"number"`
	Heading string `json:"heading"`
	Content []Node `json:"content,omitempty"`
}

func (e *Exhibit) Type() NodeType { return NodeTypeExhibit }

// PlainText is body text that matched no structural marker.
type PlainText struct {
	Text string `json:"text"`
}

func (p *PlainText) Type() NodeType { return NodeTypePlainText }

// ParseResult is the parser output: top-level Articles in source order and
// the Exhibit list.  Chapters never appear.
type ParseResult struct {
	Articles []*Article `json:"articles"`
	Exhibits []*Exhibit `json:"exhibits"`
}

//Personal.AI order the ending
