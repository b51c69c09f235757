package utils

import "strings"

// Allows you to specify *.png to do a suffix match, or /static/* to do a prefix match.
// Anything without a leading or trailing * is a literal match
func MatchesWithWildcard(valueToEvaluate string, matcher string) bool {
	if matcher == "" {
		return false
	}
	if matcher[0] == '*' {
		return strings.HasSuffix(valueToEvaluate, matcher[1:])
	}
	if matcher[len(matcher)-1] == '*' {
		return strings.HasPrefix(valueToEvaluate, matcher[:len(matcher)-1])
	}
	return valueToEvaluate == matcher
}

func MatchesAny(matchers []string, valueToEvaluate string) bool {
	for _, m := range matchers {
		if MatchesWithWildcard(valueToEvaluate, m) {
			return true
		}
	}

	return false
}
