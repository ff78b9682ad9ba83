package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"evalai/internal/config"
	"evalai/internal/model"
	"evalai/internal/quizparse"
)

const saqPromptTemplate = `You are a highly skilled Quiz Generation expert with strong domain knowledge.

Your task is to generate up to %d Short Answer Questions (SAQs) from the provided cluster.

CRITICAL REQUIREMENTS:
- Generate questions ONLY from the keywords and topic provided below
- Do NOT mix information from other topics or documents
- Use the keywords ONLY to identify the topic
- Do not use keywords or the document as a single source of truth
- Use your own verified knowledge base to generate high-quality questions from the keywords
- If a keyword seems ambiguous, poorly defined, illogical or incorrect, then do NOT use it to generate questions
- Each question must be distinct and test different aspects
- You can generate at most %d questions
- If there is not enough information to create %d quality SAQs, generate fewer
- Do not use keywords in the question or answer directly

QUESTION QUALITY RULES:
- Questions must test conceptual understanding and real-world knowledge
- Avoid trivial or purely definitional questions
- Each question must be unique
- Questions should be appropriate for the topic complexity

ANSWER RULES:
- Answers must be factually correct
- Answers must be concise (1-2 lines)
- Provide a short explanation

CLUSTER INFORMATION:
%s

OUTPUT FORMAT (STRICT):
Q1. <Question text>
Answer: <Correct answer>
Explanation: <Short explanation>

Q2. <Question text>
Answer: <Correct answer>
Explanation: <Short explanation>
`

const mcqPromptTemplate = `You are an expert-level Quiz generator and subject-matter expert.

Your task is to generate up to %d Multiple Choice Questions (MCQs) from the provided cluster.

CRITICAL REQUIREMENTS:
- Generate questions ONLY from the keywords and topic provided below
- Do NOT mix information from other topics or documents
- Use the keywords ONLY to identify the topic
- Do not use keywords or the document as a single source of truth
- Use your own verified knowledge base to generate high-quality questions from the keywords
- If a keyword seems ambiguous, poorly defined, illogical or incorrect, then do NOT use it to generate questions
- All questions must be distinct and test different aspects
- Do not use keywords in the question or options directly

MCQ CONSTRAINTS:
1. You can generate at most %d MCQs
2. Each MCQ should have exactly 4 options (A, B, C, D)
3. Each MCQ MUST have EXACTLY ONE correct option
4. The correct option must be fully correct and unambiguous and the remaining 3 options should be clearly incorrect
5. All incorrect options must be clearly wrong and must not be partially correct or acceptable under any circumstances
6. Provide a concise explanation
7. If there is not enough information to create %d quality MCQs, generate fewer

CLUSTER INFORMATION:
%s

STRICT OUTPUT FORMAT:
Q1. <Question text>
   A) <Option A>
   B) <Option B>
   C) <Option C>
   D) <Option D>
Correct Answer: <A/B/C/D>
Explanation: <2-3 line explanation>

Q2. ...
`

// GeneratorService produces validated questions for one cluster at a time
type GeneratorService struct {
	llm   ChatClient
	cfg   *config.AIConfig
	sleep func(time.Duration) // replaced in tests
}

// NewGeneratorService creates a question generator
func NewGeneratorService(llm ChatClient, cfg *config.AIConfig) *GeneratorService {
	return &GeneratorService{llm: llm, cfg: cfg, sleep: time.Sleep}
}

// formatCluster renders a cluster as the prompt's context block
func formatCluster(c model.Cluster) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SOURCE DOCUMENT: %s\n", c.Document)
	fmt.Fprintf(&sb, "TOPIC/THEME: %s\n", c.Theme)
	sb.WriteString("KEYWORDS:\n")
	for _, kw := range c.Keywords {
		fmt.Fprintf(&sb, "  - %s\n", kw)
	}
	return strings.TrimSpace(sb.String())
}

// GenerateForCluster generates the allocated SAQs and MCQs for one cluster.
// Questions come back parsed, cleaned and tagged with cluster and document.
// When a call exhausts its retries the cluster contributes zero questions of
// that type; only authentication failures abort the batch.
func (g *GeneratorService) GenerateForCluster(ctx context.Context, alloc model.Allocation) ([]model.Question, error) {
	c := alloc.Cluster
	contextText := formatCluster(c)

	var questions []model.Question

	if alloc.NumSAQ > 0 {
		log.Printf("[Generator] Generating %d SAQs from cluster %q", alloc.NumSAQ, c.Theme)
		prompt := fmt.Sprintf(saqPromptTemplate, alloc.NumSAQ, alloc.NumSAQ, alloc.NumSAQ, contextText)
		raw, err := g.llm.Complete(ctx, g.cfg.Models.Generator, prompt, 0.3, 2000)
		if err != nil {
			if isAuthError(err) {
				return nil, err
			}
			log.Printf("[Generator] SAQ generation failed for cluster %q: %v", c.Theme, err)
		} else {
			for _, q := range quizparse.Parse(raw) {
				if q.Type != model.QuestionTypeSAQ {
					continue
				}
				q.SourceCluster = c.Theme
				q.SourceDocument = c.Document
				questions = append(questions, q)
			}
		}
	}

	if alloc.NumSAQ > 0 && alloc.NumMCQ > 0 {
		g.sleep(time.Second)
	}

	if alloc.NumMCQ > 0 {
		log.Printf("[Generator] Generating %d MCQs from cluster %q", alloc.NumMCQ, c.Theme)
		prompt := fmt.Sprintf(mcqPromptTemplate, alloc.NumMCQ, alloc.NumMCQ, alloc.NumMCQ, contextText)
		raw, err := g.llm.Complete(ctx, g.cfg.Models.Generator, prompt, 0.2, 2000)
		if err != nil {
			if isAuthError(err) {
				return nil, err
			}
			log.Printf("[Generator] MCQ generation failed for cluster %q: %v", c.Theme, err)
		} else {
			for _, q := range quizparse.Parse(raw) {
				if q.Type != model.QuestionTypeMCQ {
					continue
				}
				q.SourceCluster = c.Theme
				q.SourceDocument = c.Document
				questions = append(questions, q)
			}
		}
	}

	return quizparse.Clean(questions), nil
}

func isAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == ErrAuthFailed
	}
	return false
}
