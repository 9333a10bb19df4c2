package chunk

import (
	"regexp"
	"strconv"
)

var (
	exhibitRefRe = regexp.MustCompile(`[\[［]?\s*별표\s*(\d+)\s*[\]］]?`)
	articleRefRe = regexp.MustCompile(`제\s*(\d+)\s*조`)
)

// extractReferences scans raw chunk text for cross-references to exhibits
// ("별표 N") and other articles ("제N조") and returns their global ids in
// first-mention order.  Self-references are excluded; duplicates collapse.
func extractReferences(contractType, text string, selfArticle int) []string {
	var refs []string
	seen := make(map[string]bool)

	add := func(gid GlobalID) {
		s := gid.String()
		if !seen[s] {
			seen[s] = true
			refs = append(refs, s)
		}
	}

	for _, m := range exhibitRefRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
			add(NewGlobalID(contractType, Segment{Item: ItemTypeExhibit, Number: n}))
		}
	}
	for _, m := range articleRefRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n != selfArticle {
			add(NewGlobalID(contractType, Segment{Item: ItemTypeArticle, Number: n}))
		}
	}
	return refs
}

//Personal.AI order the ending
