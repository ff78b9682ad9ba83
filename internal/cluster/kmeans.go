package cluster

import (
	"math"

	"evalai/internal/embedding"
)

const maxKMeansIterations = 50

// partition is a fitted k-means result
type partition struct {
	labels    []int
	centroids [][]float32
	inertia   float64 // sum of squared distances to assigned centroids
}

// kmeans fits k clusters over the vectors. Seeding is deterministic: the
// first vector, then repeatedly the vector farthest from every chosen
// centroid, so identical input always yields identical labels.
func kmeans(vecs [][]float32, k int) partition {
	n := len(vecs)
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}

	centroids := make([][]float32, 0, k)
	centroids = append(centroids, vecs[0])
	for len(centroids) < k {
		bestIdx := 0
		bestDist := -1.0
		for i := range vecs {
			d := math.MaxFloat64
			for _, c := range centroids {
				if dist := embedding.SquaredDistance(vecs[i], c); dist < d {
					d = dist
				}
			}
			if d > bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		centroids = append(centroids, vecs[bestIdx])
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, v := range vecs {
			best := 0
			bestDist := math.MaxFloat64
			for c := range centroids {
				if d := embedding.SquaredDistance(v, centroids[c]); d < bestDist {
					bestDist = d
					best = c
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		for c := range centroids {
			var members [][]float32
			for i, l := range labels {
				if l == c {
					members = append(members, vecs[i])
				}
			}
			if mean, ok := embedding.Mean(members); ok {
				centroids[c] = mean
			}
		}

		if !changed {
			break
		}
	}

	var inertia float64
	for i, v := range vecs {
		inertia += embedding.SquaredDistance(v, centroids[labels[i]])
	}

	return partition{labels: labels, centroids: centroids, inertia: inertia}
}

// silhouette computes the mean silhouette score of a labeling. The second
// return is false when the score is undefined (fewer than two non-empty
// clusters, or some cluster is a singleton whose score cannot be averaged).
func silhouette(vecs [][]float32, labels []int) (float64, bool) {
	n := len(vecs)
	clusterSizes := make(map[int]int)
	for _, l := range labels {
		clusterSizes[l]++
	}
	if len(clusterSizes) < 2 || len(clusterSizes) >= n {
		return 0, false
	}

	var total float64
	for i := 0; i < n; i++ {
		if clusterSizes[labels[i]] <= 1 {
			// Singleton: silhouette defines s(i)=0
			continue
		}

		intra := 0.0
		interByCluster := make(map[int]float64)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := math.Sqrt(embedding.SquaredDistance(vecs[i], vecs[j]))
			if labels[j] == labels[i] {
				intra += d
			} else {
				interByCluster[labels[j]] += d
			}
		}

		a := intra / float64(clusterSizes[labels[i]]-1)
		b := math.MaxFloat64
		for c, sum := range interByCluster {
			if mean := sum / float64(clusterSizes[c]); mean < b {
				b = mean
			}
		}
		if b == math.MaxFloat64 {
			return 0, false
		}

		den := math.Max(a, b)
		if den > 0 {
			total += (b - a) / den
		}
	}

	return total / float64(n), true
}
