// Package simhash provides near-duplicate detection for page text. The
// escalation controller uses it to skip conventional subpages that are
// soft-404s — sites that serve the homepage again for /about or /pricing
// would otherwise double-count the same content.
package simhash

import (
	"hash/fnv"
	"math/bits"
	"strings"
)

// Fingerprint reduces extracted page text to a 64-bit SimHash. Fed the
// homepage body once, then each subpage body: a small Hamming distance
// between the two means the subpage is the homepage served under another
// path and carries nothing worth merging. Word-level FNV-64a tokens vote
// on each output bit, so rewording a paragraph moves only a few bits
// while unrelated pages diverge across most of them.
func Fingerprint(text string) uint64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	var vector [64]int

	for _, word := range words {
		h := fnv.New64a()
		h.Write([]byte(word))
		hash := h.Sum64()

		for i := 0; i < 64; i++ {
			if hash&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fingerprint uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fingerprint |= 1 << uint(i)
		}
	}

	return fingerprint
}

// Distance counts the bits on which two fingerprints disagree.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar reports whether two fingerprints are within threshold bits of
// each other. The subpage widener treats similar-to-homepage as a
// soft-404 and skips the page.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}
