package service

import (
	"math"

	"evalai/internal/model"
)

// DistributeQuestions splits maxQuestions across clusters proportionally to
// keyword count, with a 70/30 SAQ/MCQ split. Every allocated cluster gets at
// least minPerCluster SAQs; maxPerCluster (if > 0) caps either count.
// Rounding shortfall is topped up one SAQ at a time round-robin; overshoot is
// scaled down proportionally, which may leave the final total slightly off
// the target.
func DistributeQuestions(clusters []model.Cluster, maxQuestions, minPerCluster, maxPerCluster int) []model.Allocation {
	totalKeywords := 0
	for _, c := range clusters {
		totalKeywords += len(c.Keywords)
	}
	if totalKeywords == 0 || len(clusters) == 0 {
		return []model.Allocation{}
	}

	totalSAQ := int(float64(maxQuestions) * 0.7)
	totalMCQ := maxQuestions - totalSAQ

	allocations := make([]model.Allocation, 0, len(clusters))
	for _, c := range clusters {
		weight := float64(len(c.Keywords)) / float64(totalKeywords)
		saq := int(math.Round(float64(totalSAQ) * weight))
		if saq < minPerCluster {
			saq = minPerCluster
		}
		mcq := int(math.Round(float64(totalMCQ) * weight))
		if mcq < 0 {
			mcq = 0
		}

		if maxPerCluster > 0 {
			if saq > maxPerCluster {
				saq = maxPerCluster
			}
			if mcq > maxPerCluster {
				mcq = maxPerCluster
			}
		}

		allocations = append(allocations, model.Allocation{Cluster: c, NumSAQ: saq, NumMCQ: mcq})
	}

	totalAllocated := 0
	for _, a := range allocations {
		totalAllocated += a.Total()
	}
	remaining := maxQuestions - totalAllocated

	if remaining > 0 {
		idx := 0
		for remaining > 0 {
			allocations[idx%len(allocations)].NumSAQ++
			remaining--
			idx++
		}
	} else if remaining < 0 {
		scale := float64(maxQuestions) / float64(totalAllocated)
		for i := range allocations {
			saq := int(math.Round(float64(allocations[i].NumSAQ) * scale))
			if saq < minPerCluster {
				saq = minPerCluster
			}
			mcq := int(math.Round(float64(allocations[i].NumMCQ) * scale))
			if mcq < 0 {
				mcq = 0
			}
			allocations[i].NumSAQ = saq
			allocations[i].NumMCQ = mcq
		}
	}

	return allocations
}
