// Package chunk defines the atomic retrieval unit of the matching pipeline
// and the chunkers that produce it from a parsed document tree.
package chunk

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// ItemType classifies what a chunk (or a global-id path segment) represents.
type ItemType string

const (
	ItemTypeArticle   ItemType = "art"
	ItemTypeExhibit   ItemType = "ex"
	ItemTypeClause    ItemType = "cla"
	ItemTypeSubClause ItemType = "sub"
)

func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeArticle, ItemTypeExhibit, ItemTypeClause, ItemTypeSubClause:
		return true
	}
	return false
}

// urnPrefix is the fixed scheme prefix of every standard-contract global id.
const urnPrefix = "urn:std"

// Segment is one (item-type, number) step of a global-id path.
type Segment struct {
	Item   ItemType
	Number int
}

func (s Segment) String() string {
	return fmt.Sprintf("%s:%03d", s.Item, s.Number)
}

// GlobalID is the fully qualified identifier of a chunk: contract type plus
// a hierarchical path of numbered segments, e.g. urn:std:provide:art:005 or
// urn:std:provide:art:005:cla:002.  Generation is a pure function of its
// parts, so re-chunking an unmodified document yields identical ids.
type GlobalID struct {
	ContractType string
	Segments     []Segment
}

// NewGlobalID builds a GlobalID from a contract type and path segments.
func NewGlobalID(contractType string, segments ...Segment) GlobalID {
	return GlobalID{ContractType: contractType, Segments: segments}
}

// String renders the URN form: urn:std:<contract_type>:<item>:<NNN>[:…].
func (g GlobalID) String() string {
	var b strings.Builder
	b.WriteString(urnPrefix)
	b.WriteByte(':')
	b.WriteString(g.ContractType)
	for _, s := range g.Segments {
		b.WriteByte(':')
		b.WriteString(s.String())
	}
	return b.String()
}

// LocalID renders the path without the urn:std:<contract_type> prefix,
// e.g. "art:005:cla:002".
func (g GlobalID) LocalID() string {
	parts := make([]string, 0, len(g.Segments))
	for _, s := range g.Segments {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ":")
}

// ItemType returns the item type of the last (deepest) segment.
func (g GlobalID) ItemType() ItemType {
	if len(g.Segments) == 0 {
		return ""
	}
	return g.Segments[len(g.Segments)-1].Item
}

// IsExhibit reports whether the id addresses an exhibit chunk.
func (g GlobalID) IsExhibit() bool {
	return g.ItemType() == ItemTypeExhibit
}

// Parent returns the id with the last segment removed.  The second return is
// false when the id has no enclosing unit (a single-segment id is its own
// parent in chunk terms).
func (g GlobalID) Parent() (GlobalID, bool) {
	if len(g.Segments) <= 1 {
		return g, false
	}
	return GlobalID{ContractType: g.ContractType, Segments: g.Segments[:len(g.Segments)-1]}, true
}

// ParseGlobalID parses the URN form back into its parts.
func ParseGlobalID(s string) (GlobalID, error) {
	parts := strings.Split(s, ":")
	// urn:std:<ct> plus at least one (item, number) pair.
	if len(parts) < 5 || parts[0] != "urn" || parts[1] != "std" {
		return GlobalID{}, errors.New(errors.ErrCodeGlobalIDInvalid,
			fmt.Sprintf("malformed global id %q", s))
	}
	ct := parts[2]
	if ct == "" {
		return GlobalID{}, errors.New(errors.ErrCodeGlobalIDInvalid,
			fmt.Sprintf("global id %q has empty contract type", s))
	}
	rest := parts[3:]
	if len(rest)%2 != 0 {
		return GlobalID{}, errors.New(errors.ErrCodeGlobalIDInvalid,
			fmt.Sprintf("global id %q has an unpaired path segment", s))
	}
	segs := make([]Segment, 0, len(rest)/2)
	for i := 0; i < len(rest); i += 2 {
		item := ItemType(rest[i])
		if !item.IsValid() {
			return GlobalID{}, errors.New(errors.ErrCodeGlobalIDInvalid,
				fmt.Sprintf("global id %q has unknown item type %q", s, rest[i]))
		}
		num, err := strconv.Atoi(rest[i+1])
		if err != nil || num < 1 {
			return GlobalID{}, errors.New(errors.ErrCodeGlobalIDInvalid,
				fmt.Sprintf("global id %q has invalid number %q", s, rest[i+1]))
		}
		segs = append(segs, Segment{Item: item, Number: num})
	}
	return GlobalID{ContractType: ct, Segments: segs}, nil
}

//Personal.AI order the ending
