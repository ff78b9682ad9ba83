package model

// QuestionType defines the type of a generated question
type QuestionType string

const (
	QuestionTypeSAQ QuestionType = "SAQ" // Short answer, LLM-evaluated on submit
	QuestionTypeMCQ QuestionType = "MCQ" // Four options A-D, exactly one correct
)

// OptionKeys are the MCQ option labels, in display order
var OptionKeys = []string{"A", "B", "C", "D"}

// MCQPayload holds the variant fields of a multiple-choice question
type MCQPayload struct {
	Options       map[string]string `json:"options" bson:"options"`               // keyed A-D
	CorrectOption string            `json:"correct_answer" bson:"correct_answer"` // single letter A-D
}

// SAQPayload holds the variant fields of a short-answer question
type SAQPayload struct {
	Answer string `json:"answer" bson:"answer"` // reference answer for evaluation
}

// Question is one generated quiz question. Exactly one of MCQ/SAQ is set,
// matching Type.
type Question struct {
	ID             string       `json:"id" bson:"id"` // q_0, q_1, ... assigned at assembly
	Type           QuestionType `json:"type" bson:"type"`
	Text           string       `json:"question" bson:"question"`
	Explanation    string       `json:"explanation,omitempty" bson:"explanation,omitempty"`
	SourceCluster  string       `json:"source_cluster,omitempty" bson:"source_cluster,omitempty"`
	SourceDocument string       `json:"source_pdf,omitempty" bson:"source_pdf,omitempty"`

	MCQ *MCQPayload `json:"mcq,omitempty" bson:"mcq,omitempty"`
	SAQ *SAQPayload `json:"saq,omitempty" bson:"saq,omitempty"`
}

// IsValid reports whether the question satisfies its variant's invariants:
// an MCQ needs all four non-blank options and a correct key, an SAQ needs a
// non-blank answer.
func (q *Question) IsValid() bool {
	if q.Text == "" {
		return false
	}
	switch q.Type {
	case QuestionTypeMCQ:
		if q.MCQ == nil || q.MCQ.CorrectOption == "" {
			return false
		}
		if len(q.MCQ.Options) < len(OptionKeys) {
			return false
		}
		for _, k := range OptionKeys {
			if opt, ok := q.MCQ.Options[k]; !ok || opt == "" {
				return false
			}
		}
		return true
	case QuestionTypeSAQ:
		return q.SAQ != nil && q.SAQ.Answer != ""
	default:
		return false
	}
}

// QuizSummary holds observability counts for a generated quiz
type QuizSummary struct {
	Total       int            `json:"total"`
	SAQCount    int            `json:"saq_count"`
	MCQCount    int            `json:"mcq_count"`
	PerDocument map[string]int `json:"per_document,omitempty"`
}

// Quiz is the ordered question collection for one document set
type Quiz struct {
	Key       string     `json:"pdf_names" bson:"pdf_names"` // canonical document-set key
	Questions []Question `json:"quiz" bson:"quiz"`
	CreatedAt string     `json:"created_at" bson:"created_at"` // RFC 3339
}

// Summarize computes the quiz's summary counts
func (q *Quiz) Summarize() QuizSummary {
	s := QuizSummary{Total: len(q.Questions), PerDocument: make(map[string]int)}
	for _, question := range q.Questions {
		switch question.Type {
		case QuestionTypeMCQ:
			s.MCQCount++
		case QuestionTypeSAQ:
			s.SAQCount++
		}
		if question.SourceDocument != "" {
			s.PerDocument[question.SourceDocument]++
		}
	}
	return s
}
