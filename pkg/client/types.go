package client

// Chunk is the wire representation of one corpus chunk as returned by the
// search, match and corpus endpoints.
type Chunk struct {
	ID                string   `json:"id"`
	GlobalID          string   `json:"global_id"`
	ParentID          string   `json:"parent_id"`
	Title             string   `json:"title"`
	TextNorm          string   `json:"text_norm"`
	TextRaw           string   `json:"text_raw"`
	OrderIndex        int      `json:"order_index"`
	References        []string `json:"references,omitempty"`
	CommentarySummary string   `json:"commentary_summary,omitempty"`
}

// SearchResult is one fused hybrid-search candidate.
type SearchResult struct {
	Chunk          *Chunk  `json:"chunk"`
	GlobalID       string  `json:"global_id"`
	DenseScore     float64 `json:"dense_score"`
	DenseScoreRaw  float64 `json:"dense_score_raw"`
	SparseScore    float64 `json:"sparse_score"`
	SparseScoreRaw float64 `json:"sparse_score_raw"`
	CombinedScore  float64 `json:"combined_score"`
}

// ResolvedReference is a cross-referenced standard item attached to a match
// candidate as supporting evidence.
type ResolvedReference struct {
	GlobalID          string `json:"global_id"`
	ItemType          string `json:"item_type"`
	LLMText           string `json:"llm_text,omitempty"`
	TextNorm          string `json:"text_norm,omitempty"`
	CommentarySummary string `json:"commentary_summary,omitempty"`
}

// ArticleMatch is one (user article, standard article) candidate pair from
// the matching report.
type ArticleMatch struct {
	ParentID        string              `json:"parent_id"`
	GlobalID        string              `json:"global_id"`
	Title           string              `json:"title"`
	CombinedScore   float64             `json:"combined_score"`
	NumSubItems     int                 `json:"num_sub_items"`
	MatchedSubItems []string            `json:"matched_sub_items"`
	SubItemsScores  []*SearchResult     `json:"sub_items_scores"`
	References      []ResolvedReference `json:"references,omitempty"`
	DeepCompare     bool                `json:"deep_compare"`
}

// Report is the per-user-article matching output.
type Report struct {
	Matched         bool            `json:"matched"`
	MatchedArticles []*ArticleMatch `json:"matched_articles"`
}

//Personal.AI order the ending
