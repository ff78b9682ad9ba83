package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"evalai/internal/config"
	"evalai/internal/model"
)

const evaluationPromptTemplate = `You are an expert exam grader evaluating a student's short answer.

Return ONLY valid JSON matching this schema:
{
  "verdict": "CORRECT" or "PARTIALLY_CORRECT" or "INCORRECT",
  "score": 0 to 10,
  "reason": "one or two sentence justification"
}

GRADING RULES:
- Judge factual correctness against the reference answer, not wording
- Accept paraphrases and synonyms that preserve the meaning
- PARTIALLY_CORRECT means the answer captures some but not all key points
- Do not award credit for restating the question or for vague generalities

Question: %s
Reference Answer: %s
Student's Answer: %s`

// correctScoreThreshold is the normalized score at or above which an answer
// counts as correct
const correctScoreThreshold = 0.7

// EvaluatorService grades quiz attempts. MCQs are graded by exact key match,
// SAQs by LLM judgement with heuristic short-circuits for throwaway answers.
type EvaluatorService struct {
	llm ChatClient
	cfg *config.AIConfig
}

// NewEvaluatorService creates an attempt grader
func NewEvaluatorService(llm ChatClient, cfg *config.AIConfig) *EvaluatorService {
	return &EvaluatorService{llm: llm, cfg: cfg}
}

// quickReject catches answers not worth an LLM round trip
func quickReject(question *model.Question, answer string) (*model.SAQEvaluation, bool) {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return &model.SAQEvaluation{
			Verdict: model.VerdictIncorrect,
			Reason:  "No answer was provided.",
		}, true
	}
	if strings.EqualFold(trimmed, strings.TrimSpace(question.Text)) {
		return &model.SAQEvaluation{
			Verdict: model.VerdictIncorrect,
			Reason:  "The answer repeats the question without addressing it.",
		}, true
	}
	return nil, false
}

// EvaluateSAQ grades a short answer against the question's reference answer.
// LLM failures degrade to an INCORRECT verdict rather than failing the attempt.
func (s *EvaluatorService) EvaluateSAQ(ctx context.Context, question *model.Question, answer string) *model.SAQEvaluation {
	if rejected, ok := quickReject(question, answer); ok {
		return rejected
	}
	if !s.cfg.IsEnabled() {
		return s.mockEvaluate(question, answer)
	}

	reference := ""
	if question.SAQ != nil {
		reference = question.SAQ.Answer
	}
	prompt := fmt.Sprintf(evaluationPromptTemplate, question.Text, reference, answer)
	response, err := s.llm.Complete(ctx, s.cfg.Models.Evaluator, prompt, 0.0, 500)
	if err != nil {
		log.Printf("[Evaluator] Evaluation failed for question %s: %v", question.ID, err)
		return &model.SAQEvaluation{
			Verdict: model.VerdictIncorrect,
			Reason:  "Automatic grading was unavailable for this answer.",
		}
	}

	var result struct {
		Verdict string  `json:"verdict"`
		Score   float64 `json:"score"`
		Reason  string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(extractJSON(response)), &result); err != nil {
		log.Printf("[Evaluator] Unparseable verdict for question %s: %v", question.ID, err)
		return &model.SAQEvaluation{
			Verdict: model.VerdictIncorrect,
			Reason:  "The grader returned an unreadable verdict.",
		}
	}

	verdict := normalizeVerdict(result.Verdict)
	score := result.Score / 10.0
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return &model.SAQEvaluation{
		// Correctness follows the normalized score, not the verdict label
		IsCorrect: score >= correctScoreThreshold,
		Score:     score,
		Verdict:   verdict,
		Reason:    strings.TrimSpace(result.Reason),
	}
}

// GradeAttempt grades every submitted answer against the quiz and assembles
// the stored attempt record. Unknown question ids are skipped.
func (s *EvaluatorService) GradeAttempt(ctx context.Context, quiz *model.Quiz, userID string, answers []model.AnswerSubmission) *model.Attempt {
	byID := make(map[string]*model.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		byID[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	attempt := &model.Attempt{
		UserID:      userID,
		QuizKey:     quiz.Key,
		AttemptedAt: time.Now().UTC().Format(time.RFC3339),
	}

	saqScoreSum := 0.0
	for _, sub := range answers {
		q, ok := byID[sub.QuestionID]
		if !ok {
			log.Printf("[Evaluator] Ignoring answer for unknown question %q", sub.QuestionID)
			continue
		}

		eq := model.EvaluatedQuestion{
			Question:   *q,
			UserAnswer: sub.Answer,
		}

		switch q.Type {
		case model.QuestionTypeMCQ:
			attempt.MCQCount++
			correct := q.MCQ != nil && strings.EqualFold(strings.TrimSpace(sub.Answer), q.MCQ.CorrectOption)
			eq.IsCorrect = correct
			if correct {
				attempt.TotalCorrect++
			}
		case model.QuestionTypeSAQ:
			attempt.SAQCount++
			eval := s.EvaluateSAQ(ctx, q, sub.Answer)
			eq.IsCorrect = eval.IsCorrect
			eq.Evaluation = eval
			saqScoreSum += eval.Score
			if eval.IsCorrect {
				attempt.TotalCorrect++
			}
		}
		attempt.Evaluated = append(attempt.Evaluated, eq)
	}

	attempt.TotalQuestions = len(attempt.Evaluated)
	if attempt.TotalQuestions > 0 {
		attempt.Percentage = float64(attempt.TotalCorrect) / float64(attempt.TotalQuestions) * 100
	}
	if attempt.SAQCount > 0 {
		attempt.SAQAverage = saqScoreSum / float64(attempt.SAQCount) * 100
	}
	return attempt
}

// normalizeVerdict maps free-form grader output onto the known verdicts
func normalizeVerdict(raw string) model.Verdict {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(model.VerdictCorrect):
		return model.VerdictCorrect
	case string(model.VerdictPartiallyCorrect), "PARTIAL", "PARTIALLY CORRECT":
		return model.VerdictPartiallyCorrect
	default:
		return model.VerdictIncorrect
	}
}

// extractJSON strips markdown code fences some models wrap around JSON output
func extractJSON(response string) string {
	s := strings.TrimSpace(response)
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			return s[start : end+1]
		}
	}
	return s
}

// mockEvaluate grades by answer length when no API key is configured
func (s *EvaluatorService) mockEvaluate(question *model.Question, answer string) *model.SAQEvaluation {
	wordCount := len(strings.Fields(answer))
	score := float64(wordCount) / 20.0
	if score > 1.0 {
		score = 1.0
	}
	verdict := model.VerdictIncorrect
	if score >= 0.5 {
		verdict = model.VerdictPartiallyCorrect
	}
	if score >= 0.8 {
		verdict = model.VerdictCorrect
	}
	return &model.SAQEvaluation{
		IsCorrect: score >= correctScoreThreshold,
		Score:     score,
		Verdict:   verdict,
		Reason:    "Mock evaluation based on response length.",
	}
}
