package feed

import (
	"regexp"
	"strings"
)

// maxFeedContentLength bounds cleaned feed content, in runes.
const maxFeedContentLength = 2000

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlTagRe     = regexp.MustCompile(`<[^>]*>`)
	htmlEntityRe  = regexp.MustCompile(`&[a-zA-Z0-9#]+;`)
)

// CleanText strips HTML tags and entities from short text such as titles
// and collapses whitespace.
func CleanText(text string) string {
	text = htmlTagRe.ReplaceAllString(text, "")
	text = htmlEntityRe.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// CleanContent strips script and style blocks, HTML markup and entities
// from article bodies, collapses whitespace and caps the result.
func CleanContent(content string) string {
	content = scriptBlockRe.ReplaceAllString(content, "")
	content = styleBlockRe.ReplaceAllString(content, "")
	content = htmlTagRe.ReplaceAllString(content, " ")
	content = htmlEntityRe.ReplaceAllString(content, " ")
	content = strings.Join(strings.Fields(content), " ")

	runes := []rune(content)
	if len(runes) > maxFeedContentLength {
		runes = runes[:maxFeedContentLength]
	}
	return string(runes)
}
