package domain

import "strings"

// MatchAnswer compares a submission against the not-yet-revealed answers of
// a board and returns the first acceptable candidate, or nil. Matching is
// case- and surrounding-whitespace-insensitive and tolerates typos up to an
// edit distance of max(1, 25% of the candidate length), as long as the
// distance stays within 25% of the longer string. Revealed answers never
// match again, which guards against double credit.
func MatchAnswer(submission string, answers []Answer) *Answer {
	user := strings.ToLower(strings.TrimSpace(submission))

	for i := range answers {
		if answers[i].Revealed {
			continue
		}
		candidate := strings.ToLower(answers[i].Text)

		distance := levenshtein(user, candidate)
		longest := len(user)
		if len(candidate) > longest {
			longest = len(candidate)
		}
		if longest == 0 {
			continue
		}

		allowed := len(candidate) / 4
		if allowed < 1 {
			allowed = 1
		}
		if distance <= allowed && distance*4 <= longest {
			return &answers[i]
		}
	}
	return nil
}

// levenshtein computes the edit distance between two strings using a
// two-row rolling matrix.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
