package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"evalai/internal/cache"
	"evalai/internal/cluster"
	"evalai/internal/config"
	"evalai/internal/extract"
	"evalai/internal/model"
	"evalai/internal/store"
	"evalai/internal/textsource"
)

// ProgressNotifier pushes pipeline stage events to interested clients
// (avoids import cycle with the websocket hub)
type ProgressNotifier interface {
	Publish(jobID string, event string, payload interface{})
}

// noopNotifier is used when no hub is wired, e.g. in tests
type noopNotifier struct{}

func (noopNotifier) Publish(string, string, interface{}) {}

// QuizService runs the full generation pipeline for a document set and owns
// the quiz caches. Results are idempotent per document-set key: a second run
// over the same set returns the stored quiz unchanged.
type QuizService struct {
	source    textsource.Source
	extractor *extract.Extractor
	filter    *extract.Filter
	clusters  *cluster.Engine
	generator *GeneratorService
	store     store.QuizStore
	cache     cache.QuizCache
	notifier  ProgressNotifier
	cfg       *config.PipelineConfig
	sleep     func(time.Duration)
}

func NewQuizService(
	source textsource.Source,
	extractor *extract.Extractor,
	filter *extract.Filter,
	clusters *cluster.Engine,
	generator *GeneratorService,
	quizStore store.QuizStore,
	quizCache cache.QuizCache,
	notifier ProgressNotifier,
	cfg *config.PipelineConfig,
) *QuizService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &QuizService{
		source:    source,
		extractor: extractor,
		filter:    filter,
		clusters:  clusters,
		generator: generator,
		store:     quizStore,
		cache:     quizCache,
		notifier:  notifier,
		cfg:       cfg,
		sleep:     time.Sleep,
	}
}

// GetQuiz returns the stored quiz for a document-set key, or nil when none
// exists. The redis cache is consulted before the file store.
func (s *QuizService) GetQuiz(ctx context.Context, key string) (*model.Quiz, error) {
	if s.cache != nil {
		if quiz, err := s.cache.Get(ctx, key); err != nil {
			log.Printf("[Quiz] Cache read failed for %q: %v", key, err)
		} else if quiz != nil && len(quiz.Questions) > 0 {
			return quiz, nil
		}
	}
	quiz, err := s.store.Load(key)
	if err != nil {
		return nil, err
	}
	if quiz != nil && s.cache != nil {
		if err := s.cache.Set(ctx, quiz); err != nil {
			log.Printf("[Quiz] Cache write failed for %q: %v", key, err)
		}
	}
	return quiz, nil
}

// GenerateQuiz runs the pipeline over a document set. When a quiz already
// exists for the set's key it is returned as-is without touching the LLM.
func (s *QuizService) GenerateQuiz(ctx context.Context, jobID string, paths []string) (*model.Quiz, error) {
	key := store.QuizKey(paths)

	existing, err := s.GetQuiz(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Printf("[Quiz] Using cached quiz for %q (%d questions)", key, len(existing.Questions))
		s.notifier.Publish(jobID, "cached", existing.Summarize())
		return existing, nil
	}

	log.Printf("[Quiz] Generating quiz for %q from %d document(s)", key, len(paths))
	var allClusters []model.Cluster
	for _, path := range paths {
		docClusters, err := s.clusterDocument(ctx, jobID, path)
		if err != nil {
			return nil, err
		}
		allClusters = append(allClusters, docClusters...)
	}

	if len(allClusters) == 0 {
		log.Printf("[Quiz] No clusters produced for %q, returning empty quiz", key)
		return s.assemble(ctx, key, nil), nil
	}

	allocations := DistributeQuestions(allClusters, s.cfg.MaxQuestions, s.cfg.MinPerCluster, s.cfg.MaxPerCluster)
	s.notifier.Publish(jobID, "allocated", len(allocations))

	var questions []model.Question
	for i, alloc := range allocations {
		if i > 0 {
			s.sleep(1500 * time.Millisecond)
		}
		generated, err := s.generator.GenerateForCluster(ctx, alloc)
		if err != nil {
			return nil, fmt.Errorf("generate questions for cluster %q: %w", alloc.Cluster.Theme, err)
		}
		questions = append(questions, generated...)
		s.notifier.Publish(jobID, "cluster_done", map[string]interface{}{
			"theme":     alloc.Cluster.Theme,
			"questions": len(generated),
		})
	}

	quiz := s.assemble(ctx, key, questions)
	summary := quiz.Summarize()
	log.Printf("[Quiz] Assembled quiz %q: %d questions (%d SAQ, %d MCQ)",
		key, summary.Total, summary.SAQCount, summary.MCQCount)
	s.notifier.Publish(jobID, "completed", summary)
	return quiz, nil
}

// clusterDocument runs extract -> filter -> cluster for one document
func (s *QuizService) clusterDocument(ctx context.Context, jobID, path string) ([]model.Cluster, error) {
	doc, err := s.source.Load(path)
	if err != nil {
		return nil, err
	}

	candidates, err := s.extractor.Extract(doc.Text, doc.DiagramText)
	if err != nil {
		return nil, fmt.Errorf("extract keywords from %s: %w", doc.Name, err)
	}
	if len(candidates) == 0 {
		log.Printf("[Quiz] No candidate phrases in %s", doc.Name)
		return nil, nil
	}

	keywords, err := s.filter.FilteredKeywords(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("filter keywords from %s: %w", doc.Name, err)
	}
	if len(keywords) == 0 {
		log.Printf("[Quiz] No keywords survived filtering in %s", doc.Name)
		return nil, nil
	}
	s.notifier.Publish(jobID, "keywords", map[string]interface{}{
		"document": doc.Name,
		"count":    len(keywords),
	})

	docClusters, err := s.clusters.Clusters(ctx, keywords, doc.Name)
	if err != nil {
		return nil, fmt.Errorf("cluster keywords from %s: %w", doc.Name, err)
	}
	log.Printf("[Quiz] Document %s: %d keywords in %d cluster(s)", doc.Name, len(keywords), len(docClusters))
	return docClusters, nil
}

// assemble shuffles and ids the questions, persists the quiz and warms the
// cache. An empty question list still produces a quiz value so callers can
// tell "nothing generated" from a failure, but it is not cached.
func (s *QuizService) assemble(ctx context.Context, key string, questions []model.Question) *model.Quiz {
	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	for i := range questions {
		questions[i].ID = fmt.Sprintf("q_%d", i)
	}

	quiz := &model.Quiz{
		Key:       key,
		Questions: questions,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if len(questions) == 0 {
		return quiz
	}

	if err := s.store.Save(quiz); err != nil {
		log.Printf("[Quiz] Failed to persist quiz %q: %v", key, err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, quiz); err != nil {
			log.Printf("[Quiz] Cache write failed for %q: %v", key, err)
		}
	}
	return quiz
}

// StripAnswers returns a copy of the quiz safe to hand to a quiz taker:
// reference answers, correct options and explanations are removed.
func StripAnswers(quiz *model.Quiz) *model.Quiz {
	stripped := &model.Quiz{
		Key:       quiz.Key,
		Questions: make([]model.Question, len(quiz.Questions)),
		CreatedAt: quiz.CreatedAt,
	}
	for i, q := range quiz.Questions {
		q.Explanation = ""
		if q.MCQ != nil {
			q.MCQ = &model.MCQPayload{Options: q.MCQ.Options}
		}
		q.SAQ = nil
		stripped.Questions[i] = q
	}
	return stripped
}
