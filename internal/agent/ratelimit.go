package agent

import "regexp"

// rateLimitMaxTextSize guards the bare-phrase check: the model discussing
// rate limits in a long analysis must not read as being rate limited.
const rateLimitMaxTextSize = 500

var (
	// Reset notices with a clock time: "resets 6pm (America/Bahia)",
	// "resets 6:30pm (America/Sao_Paulo)", "resets 18:00 (UTC)", and the
	// dated form "resets Jan 1, 2026, 9am (UTC)".
	resetPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)resets?\s+\d{1,2}:\d{2}\s*(?:am|pm)?\s*\([^)]+\)`),
		regexp.MustCompile(`(?i)resets?\s+\d{1,2}\s*(?:am|pm)\s*\([^)]+\)`),
		regexp.MustCompile(`(?i)resets?\s+[A-Za-z]+\s+\d{1,2},?\s+\d{4},?\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)\s*\([^)]+\)`),
	}

	// Bare notices with no reset time at all.
	barePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)you'?ve hit your limit`),
		regexp.MustCompile(`(?i)rate limit exceeded`),
		regexp.MustCompile(`(?i)rate limited`),
		regexp.MustCompile(`(?i)too many requests`),
	}
)

// IsRateLimited reports whether text looks like a rate-limit notice rather
// than a real model turn. Real turns end with a verdict block and run long;
// notices are short, so anything over the size guard is never a match.
func IsRateLimited(text string) bool {
	if len(text) > rateLimitMaxTextSize {
		return false
	}
	for _, p := range resetPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	for _, p := range barePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// RateLimitError is returned when a turn's output looks rate limited. The
// retry wrapper treats it as a wait, not a failure.
type RateLimitError struct {
	UnderlyingErr error
}

func (e *RateLimitError) Error() string {
	return "rate limit detected"
}

func (e *RateLimitError) Unwrap() error {
	return e.UnderlyingErr
}
