package cluster

import (
	"context"
	"fmt"
	"log"

	"evalai/internal/embedding"
	"evalai/internal/model"
)

// Below this many keywords clustering is not meaningful and everything goes
// into a single theme.
const minKeywordsToCluster = 4

// Engine groups a document's keywords into topical clusters using embedding
// similarity and k-means with automatic cluster-count selection
type Engine struct {
	embedder    embedding.Embedder
	maxClusters int
	useElbow    bool // false selects the count by silhouette score
}

// NewEngine creates a cluster engine. maxClusters caps the candidate counts
// swept (default 8 when <= 0).
func NewEngine(embedder embedding.Embedder, maxClusters int, useElbow bool) *Engine {
	if maxClusters <= 0 {
		maxClusters = 8
	}
	return &Engine{embedder: embedder, maxClusters: maxClusters, useElbow: useElbow}
}

// Clusters partitions the filtered keywords of one document into themes.
// Returns clusters named Theme_1..Theme_n, keyword order preserved within
// each. An empty keyword list yields an empty slice, not an error.
func (e *Engine) Clusters(ctx context.Context, keywords []string, document string) ([]model.Cluster, error) {
	if len(keywords) == 0 {
		log.Println("[Cluster] No keywords found after filtering")
		return []model.Cluster{}, nil
	}

	if len(keywords) < minKeywordsToCluster {
		log.Println("[Cluster] Not enough keywords to cluster, returning one theme")
		return []model.Cluster{{Theme: "Theme_1", Keywords: keywords, Document: document}}, nil
	}

	vecs, err := e.embedder.Embed(ctx, keywords)
	if err != nil {
		return nil, fmt.Errorf("embedding keywords: %w", err)
	}

	maxN := e.maxClusters
	if len(keywords) < maxN {
		maxN = len(keywords)
	}

	var counts []int
	inertias := make(map[int]float64)
	silhouettes := make(map[int]float64)
	for n := 2; n <= maxN; n++ {
		p := kmeans(vecs, n)
		counts = append(counts, n)
		inertias[n] = p.inertia
		if score, ok := silhouette(vecs, p.labels); ok {
			silhouettes[n] = score
		}
	}

	var optimal int
	if e.useElbow {
		optimal = chooseByElbow(counts, inertias)
		log.Printf("[Cluster] Elbow method suggests %d clusters", optimal)
	} else {
		optimal = chooseBySilhouette(counts, silhouettes)
		log.Printf("[Cluster] Silhouette method suggests %d clusters", optimal)
	}

	final := kmeans(vecs, optimal)

	grouped := make(map[int][]string)
	var labelOrder []int
	for i, kw := range keywords {
		l := final.labels[i]
		if _, seen := grouped[l]; !seen {
			labelOrder = append(labelOrder, l)
		}
		grouped[l] = append(grouped[l], kw)
	}

	clusters := make([]model.Cluster, 0, len(labelOrder))
	for _, l := range labelOrder {
		clusters = append(clusters, model.Cluster{
			Theme:    fmt.Sprintf("Theme_%d", l+1),
			Keywords: grouped[l],
			Document: document,
		})
	}
	return clusters, nil
}

// chooseByElbow picks the candidate count with the largest successive inertia
// drop. The last candidate pair does not contribute a drop.
func chooseByElbow(counts []int, inertias map[int]float64) int {
	if len(inertias) < 2 {
		return 1
	}

	var drops []float64
	for i := 0; i < len(counts)-2; i++ {
		drops = append(drops, inertias[counts[i]]-inertias[counts[i+1]])
	}
	if len(drops) == 0 {
		return counts[0]
	}

	best := 0
	for i, d := range drops {
		if d > drops[best] {
			best = i
		}
	}
	return counts[best]
}

// chooseBySilhouette picks the candidate count maximizing silhouette score,
// defaulting to one cluster when no score was computable
func chooseBySilhouette(counts []int, silhouettes map[int]float64) int {
	if len(silhouettes) == 0 {
		return 1
	}
	best := 0
	found := false
	for _, n := range counts {
		score, ok := silhouettes[n]
		if !ok {
			continue
		}
		if !found || score > silhouettes[best] {
			best = n
			found = true
		}
	}
	return best
}
