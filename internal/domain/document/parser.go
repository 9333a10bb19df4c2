package document

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
)

// Unit is one paragraph-equivalent input to the parser: text plus the layout
// signals (boldness, indentation) the classifier predicates depend on, or an
// embedded table.
type Unit struct {
	Text   string    `json:"text"`
	Bold   bool      `json:"bold"`
	Indent int       `json:"indent"`
	Table  *RawTable `json:"table,omitempty"`
}

var (
	chapterRe = regexp.MustCompile(`^제\s*(\d+)\s*장`)
	articleRe = regexp.MustCompile(`^제\s*(\d+)\s*조\s*(?:[\(（]([^\)）]*)[\)）])?\s*(.*)$`)
	exhibitRe = regexp.MustCompile(`^[\[［]\s*별표\s*(\d+)\s*[\]］]\s*(.*)$`)
	subRe     = regexp.MustCompile(`^(\d{1,2})\.\s*(.*)$`)
)

// Parser converts an ordered unit sequence into a structural tree.  It is
// stateless across Parse calls; all scan state lives in a per-call
// parserState so the classifier is testable unit by unit.
type Parser struct {
	log logging.Logger
}

// NewParser constructs a Parser.  A nil logger falls back to the nop logger.
func NewParser(log logging.Logger) *Parser {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Parser{log: log}
}

// parserState carries the mutable "current pointer" set of the sequential
// scan: the open article, clause, subclause and exhibit, plus the flag that
// routes every following unit into the exhibit section.
type parserState struct {
	result     *ParseResult
	article    *Article
	clause     *Clause
	subClause  *SubClause
	exhibit    *Exhibit
	inExhibits bool
}

// Parse classifies every unit with ordered predicates; the first predicate
// that matches determines the node type.  A document with zero recognized
// Articles is not an error — callers decide whether empty output is fatal.
func (p *Parser) Parse(units []Unit) *ParseResult {
	st := &parserState{result: &ParseResult{}}
	for _, u := range units {
		p.consume(st, u)
	}
	return st.result
}

func (p *Parser) consume(st *parserState, u Unit) {
	text := strings.TrimSpace(u.Text)

	// 1. Exhibit-index marker: heading pattern plus required emphasis.
	if m := exhibitRe.FindStringSubmatch(text); m != nil && u.Bold {
		num, _ := strconv.Atoi(m[1])
		ex := &Exhibit{Number: num, Heading: strings.TrimSpace(m[2])}
		st.result.Exhibits = append(st.result.Exhibits, ex)
		st.exhibit = ex
		st.inExhibits = true
		st.article, st.clause, st.subClause = nil, nil, nil
		return
	}

	// 2. Inside the exhibit section every non-empty unit is exhibit body.
	if st.inExhibits {
		if u.Table != nil {
			st.exhibit.Content = append(st.exhibit.Content, p.parseTableNode(*u.Table))
			return
		}
		if text != "" {
			st.exhibit.Content = append(st.exhibit.Content, &PlainText{Text: text})
		}
		return
	}

	// Tables outside the exhibit section attach to the innermost open parent.
	if u.Table != nil {
		p.attachContent(st, p.parseTableNode(*u.Table))
		return
	}

	if text == "" {
		return
	}

	// 3. Chapter marker: structurally present, never emitted.
	if chapterRe.MatchString(text) && u.Bold {
		st.article, st.clause, st.subClause = nil, nil, nil
		return
	}

	// 4. Article marker: numbered heading plus required emphasis.
	if m := articleRe.FindStringSubmatch(text); m != nil && u.Bold {
		num, _ := strconv.Atoi(m[1])
		art := &Article{Number: num, Heading: strings.TrimSpace(m[2])}
		if body := strings.TrimSpace(m[3]); body != "" {
			art.Content = append(art.Content, &PlainText{Text: body})
		}
		st.result.Articles = append(st.result.Articles, art)
		st.article = art
		st.clause, st.subClause = nil, nil
		return
	}

	runes := []rune(text)

	// 5. Clause marker: circled-digit prefix; requires an open Article.
	if num, ok := CircledDigitNumber(runes[0]); ok && !u.Bold && st.article != nil {
		cl := &Clause{Number: num, Text: strings.TrimSpace(string(runes[1:]))}
		st.article.Content = append(st.article.Content, cl)
		st.clause = cl
		st.subClause = nil
		return
	}

	// 6. SubClause marker: digit-dot prefix, indentation-sensitive, no bold.
	// Appended to the open Clause if any, else directly to the Article —
	// clause-less sub-items are legal.
	if m := subRe.FindStringSubmatch(text); m != nil && !u.Bold && u.Indent >= 1 {
		num, _ := strconv.Atoi(m[1])
		sc := &SubClause{Number: num, Text: strings.TrimSpace(m[2])}
		switch {
		case st.clause != nil:
			st.clause.Content = append(st.clause.Content, sc)
		case st.article != nil:
			st.article.Content = append(st.article.Content, sc)
		default:
			p.log.Debug("subclause outside any article dropped",
				logging.String("text", text))
			return
		}
		st.subClause = sc
		return
	}

	// 7. SubSubClause marker: Korean-ordinal-dot prefix, deeper indentation,
	// no bold.  A sub-sub-item cannot exist without its parent SubClause.
	if len(runes) >= 2 && runes[1] == '.' && !u.Bold && u.Indent >= 2 {
		if num, ok := KoreanOrdinalNumber(runes[0]); ok {
			if st.subClause == nil {
				p.log.Debug("sub-subclause without parent subclause dropped",
					logging.String("text", text))
				return
			}
			st.subClause.Content = append(st.subClause.Content,
				&SubSubClause{Number: num, Text: strings.TrimSpace(string(runes[2:]))})
			return
		}
	}

	// 8. Plain body text: attach to the innermost open parent.  Unsupported
	// marker glyphs land here too — a tolerance choice, not an error.
	p.attachContent(st, &PlainText{Text: text})
}

// attachContent appends n to the innermost open container, preferring
// clause > article.  Content with no open parent is dropped.
func (p *Parser) attachContent(st *parserState, n Node) {
	switch {
	case st.clause != nil:
		st.clause.Content = append(st.clause.Content, n)
	case st.article != nil:
		st.article.Content = append(st.article.Content, n)
	default:
		p.log.Debug("content outside any article dropped",
			logging.String("node_type", n.Type().String()))
	}
}

// parseTableNode parses a raw table, falling back to a flattened plain-text
// node when the table is malformed — never fatal to the whole document.
func (p *Parser) parseTableNode(raw RawTable) Node {
	tbl, err := ParseTable(raw)
	if err != nil {
		p.log.Warn("malformed table downgraded to plain text",
			logging.Err(err))
		var cells []string
		for _, r := range raw.Rows {
			for _, c := range r {
				if s := strings.TrimSpace(c.Text); s != "" {
					cells = append(cells, s)
				}
			}
		}
		return &PlainText{Text: strings.Join(cells, " ")}
	}
	return tbl
}

//Personal.AI order the ending
