package assemble

import (
	"fmt"
	"strings"

	"fragsort/internal/model"
)

// Merge flattens a valid chain: the first fragment in full, then each
// following fragment without its first k characters.
// An invalid chain is rejected with ErrInvalidChain.
func Merge(chain model.Chain, k int) (string, error) {
	if len(chain) == 0 {
		return "", nil
	}
	if v := Validate(chain, k); !v.Valid {
		return "", fmt.Errorf("%w: %s -> %s at index %d",
			ErrInvalidChain, chain[v.FailIndex], chain[v.FailIndex+1], v.FailIndex)
	}

	var b strings.Builder
	b.WriteString(string(chain[0]))
	for _, f := range chain[1:] {
		b.WriteString(string(f[k:]))
	}
	return b.String(), nil
}

// Split cuts a merged value back into windows of length l advancing by
// l-k characters. It is the inverse of Merge for chains of uniform length.
func Split(merged string, l, k int) model.Chain {
	if merged == "" || l <= 0 || l <= k {
		return model.Chain{}
	}
	var out model.Chain
	for i := 0; i+l <= len(merged); i += l - k {
		out = append(out, model.Fragment(merged[i:i+l]))
	}
	return out
}
