package assemble

import "fragsort/internal/model"

// Validate scans adjacent pairs left to right and reports the first pair
// that does not overlap.
func Validate(chain model.Chain, k int) model.ValidationResult {
	for i := 0; i+1 < len(chain); i++ {
		if !Overlaps(chain[i], chain[i+1], k) {
			return model.ValidationResult{Valid: false, FailIndex: i}
		}
	}
	return model.ValidationResult{Valid: true, FailIndex: -1}
}
