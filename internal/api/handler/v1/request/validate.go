package request

import (
	"errors"

	"github.com/dlclark/regexp2"
)

// markupPattern flags content trying to smuggle HTML or script into
// free-text fields the web client renders. The lookbehind-capable engine is
// needed for the attribute-handler form (onclick= etc.) without also
// rejecting ordinary prose mentioning "on".
var markupPattern = regexp2.MustCompile(
	`<\s*/?\s*(script|iframe|object|embed|svg|img|style|link|form)\b|javascript\s*:|\bon\w+\s*=\s*["']`,
	regexp2.IgnoreCase,
)

var errContainsMarkup = errors.New("must not contain HTML markup")

// noMarkup is an ozzo rule for free-text fields.
func noMarkup(value interface{}) error {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil
	}

	if matched, err := markupPattern.MatchString(s); err == nil && matched {
		return errContainsMarkup
	}

	return nil
}
