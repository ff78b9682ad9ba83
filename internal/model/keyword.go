package model

// KeywordSource tags where a candidate phrase was mined from
type KeywordSource string

const (
	SourceText    KeywordSource = "text"    // cleaned main text (tables folded in)
	SourceDiagram KeywordSource = "diagram" // OCR-extracted diagram text
)

// Candidate is a scored phrase produced by the keyword extractor, before
// filtering
type Candidate struct {
	Phrase string        `json:"phrase"`
	Score  float64       `json:"score"` // raw frequency in its source stream
	Source KeywordSource `json:"source"`
}

// Cluster is a named group of filtered keywords from one document. Clusters
// are immutable once built and consumed exactly once by the generator.
type Cluster struct {
	Theme    string   `json:"theme"` // Theme_1, Theme_2, ...
	Keywords []string `json:"keywords"`
	Document string   `json:"pdf_name"` // originating document basename, no extension
}

// Allocation is one cluster's share of the question budget
type Allocation struct {
	Cluster Cluster `json:"cluster"`
	NumSAQ  int     `json:"num_saq"`
	NumMCQ  int     `json:"num_mcq"`
}

// Total returns the allocation's combined question count
func (a Allocation) Total() int {
	return a.NumSAQ + a.NumMCQ
}
