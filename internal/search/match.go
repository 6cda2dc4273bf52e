// Package search implements the clipboard query micro-grammar used to filter
// clips by text. A query is a comma-separated list of terms OR'd together;
// each term matches as a case-insensitive substring, with a trailing * (or
// embedded %) acting as a wildcard.
package search

import (
	"regexp"
	"strings"
	"sync"
)

// Match reports whether fieldValue satisfies the query. An empty fieldValue
// never matches. Per term, first success wins:
//
//  1. a trailing * is rewritten to a trailing %
//  2. the term with % markers stripped is tested as a case-insensitive substring
//  3. a term still containing % is compiled to an anchored pattern where each
//     % becomes .* and everything else is escaped literally
func Match(fieldValue, query string) bool {
	if fieldValue == "" {
		return false
	}

	lowerValue := strings.ToLower(fieldValue)
	for _, term := range strings.Split(query, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if matchTerm(lowerValue, term) {
			return true
		}
	}
	return false
}

func matchTerm(lowerValue, term string) bool {
	if strings.HasSuffix(term, "*") {
		term = strings.TrimSuffix(term, "*") + "%"
	}

	plain := strings.ToLower(strings.ReplaceAll(term, "%", ""))
	if plain != "" && strings.Contains(lowerValue, plain) {
		return true
	}

	if strings.Contains(term, "%") {
		re, err := compileWildcard(term)
		if err != nil {
			return false
		}
		return re.MatchString(lowerValue)
	}

	return false
}

var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

// compileWildcard builds the anchored pattern for a term containing %.
// User text is escaped wholesale before the % markers are substituted, so no
// quantifier or anchor from the query ever reaches the regex engine raw.
func compileWildcard(term string) (*regexp.Regexp, error) {
	patternMu.Lock()
	defer patternMu.Unlock()

	if re, ok := patternCache[term]; ok {
		return re, nil
	}

	escaped := regexp.QuoteMeta(strings.ToLower(term))
	pattern := "^" + strings.ReplaceAll(escaped, "%", ".*") + "$"
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache[term] = re
	return re, nil
}
