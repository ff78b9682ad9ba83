package model

// Verdict is the LLM's judgement of a short answer
type Verdict string

const (
	VerdictCorrect          Verdict = "CORRECT"
	VerdictPartiallyCorrect Verdict = "PARTIALLY_CORRECT"
	VerdictIncorrect        Verdict = "INCORRECT"
)

// SAQEvaluation is the result of evaluating one short answer
type SAQEvaluation struct {
	IsCorrect bool    `json:"is_correct" bson:"is_correct"`
	Score     float64 `json:"score" bson:"score"` // 0.0-1.0, normalized
	Verdict   Verdict `json:"verdict" bson:"verdict"`
	Reason    string  `json:"reason,omitempty" bson:"reason,omitempty"`
}

// AnswerSubmission is one submitted answer, keyed by question id. MCQ answers
// carry the selected option letter, SAQ answers the free text.
type AnswerSubmission struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// EvaluatedQuestion pairs a quiz question with the user's answer and its
// grading outcome
type EvaluatedQuestion struct {
	Question   Question       `json:"question" bson:"question"`
	UserAnswer string         `json:"user_answer" bson:"user_answer"`
	IsCorrect  bool           `json:"is_correct" bson:"is_correct"`
	Evaluation *SAQEvaluation `json:"evaluation,omitempty" bson:"evaluation,omitempty"` // SAQ only
}

// Attempt is a persisted user quiz attempt with per-question evaluation
type Attempt struct {
	ID             string              `json:"id" bson:"_id,omitempty"`
	UserID         string              `json:"user_id" bson:"user_id"`
	QuizKey        string              `json:"pdf_names" bson:"pdf_names"`
	AttemptedAt    string              `json:"attempted_at" bson:"attempted_at"`
	TotalQuestions int                 `json:"total_questions" bson:"total_questions"`
	TotalCorrect   int                 `json:"total_correct" bson:"total_correct"`
	Percentage     float64             `json:"percentage_correct" bson:"percentage_correct"`
	SAQAverage     float64             `json:"saq_average_score" bson:"saq_average_score"` // mean SAQ score, percent
	SAQCount       int                 `json:"saq_count" bson:"saq_count"`
	MCQCount       int                 `json:"mcq_count" bson:"mcq_count"`
	Evaluated      []EvaluatedQuestion `json:"evaluated_quiz" bson:"evaluated_quiz"`
}
