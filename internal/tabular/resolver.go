package tabular

import "strings"

// FindColumn locates the real header matching a ranked candidate list.
// Policy, first hit wins:
//
//  1. exact match of any candidate
//  2. case-insensitive exact match
//  3. substring: first header (in table order) whose lower-cased text
//     contains a candidate, candidates scanned in priority order
//
// The boolean reports whether anything matched; callers decide whether a
// miss is fatal (required CRM field) or defaults to a sentinel.
func FindColumn(headers []string, candidates []string) (string, bool) {
	for _, c := range candidates {
		for _, h := range headers {
			if h == c {
				return h, true
			}
		}
	}

	lower := make(map[string]string, len(headers))
	for _, h := range headers {
		k := strings.ToLower(strings.TrimSpace(h))
		if _, ok := lower[k]; !ok {
			lower[k] = h
		}
	}
	for _, c := range candidates {
		if h, ok := lower[strings.ToLower(strings.TrimSpace(c))]; ok {
			return h, true
		}
	}

	for _, h := range headers {
		hl := strings.ToLower(strings.TrimSpace(h))
		for _, c := range candidates {
			if strings.Contains(hl, strings.ToLower(strings.TrimSpace(c))) {
				return h, true
			}
		}
	}
	return "", false
}
