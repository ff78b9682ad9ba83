package config

import (
	"os"
	"strconv"
)

// PipelineConfig holds the knobs of the keyword -> cluster -> quiz pipeline
type PipelineConfig struct {
	// Extraction
	TextTopN     int `json:"textTopN"`     // top phrases kept from main text
	DiagramTopN  int `json:"diagramTopN"`  // top phrases kept from diagram text
	MinPhraseLen int `json:"minPhraseLen"` // words per noun phrase, inclusive
	MaxPhraseLen int `json:"maxPhraseLen"`

	// Filtering
	TextSimThreshold    float64 `json:"textSimThreshold"`    // semantic dedupe, text pool
	DiagramSimThreshold float64 `json:"diagramSimThreshold"` // semantic dedupe, diagram pool
	MinDiagramKeywords  int     `json:"minDiagramKeywords"`  // raw fallback floor
	SpellRatioThreshold float64 `json:"spellRatioThreshold"` // fraction of dictionary words required

	// Clustering
	MaxClusters int  `json:"maxClusters"`
	UseElbow    bool `json:"useElbow"` // false selects by silhouette score

	// Budgeting
	MaxQuestions  int `json:"maxQuestions"`
	MinPerCluster int `json:"minPerCluster"` // SAQ floor per allocated cluster
	MaxPerCluster int `json:"maxPerCluster"` // 0 means no ceiling

	// Storage
	QuizDir string `json:"quizDir"` // quiz cache files live here
}

// DefaultPipelineConfig returns the default pipeline configuration
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		TextTopN:            30,
		DiagramTopN:         20,
		MinPhraseLen:        2,
		MaxPhraseLen:        5,
		TextSimThreshold:    0.65,
		DiagramSimThreshold: 0.75,
		MinDiagramKeywords:  5,
		SpellRatioThreshold: 0.6,
		MaxClusters:         getEnvInt("MAX_CLUSTERS", 8),
		UseElbow:            true,
		MaxQuestions:        getEnvInt("MAX_QUESTIONS", 20),
		MinPerCluster:       2,
		MaxPerCluster:       0,
		QuizDir:             getEnvOrDefault("QUIZ_DIR", "quizzes"),
	}
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
