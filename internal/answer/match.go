package answer

// IsCorrect reports whether submitted matches any accepted answer after
// normalization. An empty accepted list never matches.
func IsCorrect(submitted string, accepted ...string) bool {
	normalized := Normalize(submitted)
	for _, candidate := range accepted {
		if Normalize(candidate) == normalized {
			return true
		}
	}
	return false
}

// Matching returns the indices of labels that IsCorrect accepts.
func Matching(labels []string, accepted ...string) []int {
	var indices []int
	for i, label := range labels {
		if IsCorrect(label, accepted...) {
			indices = append(indices, i)
		}
	}
	return indices
}
