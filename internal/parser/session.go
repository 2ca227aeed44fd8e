package parser

import (
	"regexp"
	"strings"
)

const (
	openedMarker = "session opened for user"
	closedMarker = "session closed for user"
	userMarker   = "for user "
	byMarker     = " by "
)

// root(uid=0) -> root
var uidSuffixRegex = regexp.MustCompile(`\(uid=\d+\)$`)

func classifyMessage(msg string) (Action, string) {
	switch {
	case strings.Contains(msg, openedMarker):
		return ActionOpen, extractUser(msg)
	case strings.Contains(msg, closedMarker):
		return ActionClose, extractUser(msg)
	}
	return ActionNone, ""
}

// extractUser returns the token following "for user " up to the next
// whitespace or " by " marker.
func extractUser(msg string) string {
	idx := strings.Index(msg, userMarker)
	if idx < 0 {
		return ""
	}
	rest := msg[idx+len(userMarker):]

	if end := strings.Index(rest, byMarker); end >= 0 {
		rest = rest[:end]
	}
	if end := strings.IndexAny(rest, " \t"); end >= 0 {
		rest = rest[:end]
	}
	return uidSuffixRegex.ReplaceAllString(rest, "")
}
