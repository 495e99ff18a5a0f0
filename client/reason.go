package client

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	bareURLRe      = regexp.MustCompile(`https?://[^\s)\]]+`)
	domainCiteRe   = regexp.MustCompile(`\([a-zA-Z0-9.-]+\.[a-z]{2,}\)`)
	boldStarRe     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderRe    = regexp.MustCompile(`__([^_]+)__`)
	spaceRunRe     = regexp.MustCompile(`[ \t]+`)
)

// CleanReason reduces an analysis reason to plain prose: HTML fragments
// become text, markdown links keep their label, and URLs, domain
// citations and bold markers are dropped.
func CleanReason(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if strings.Contains(s, "<") && strings.Contains(s, ">") {
		s = htmlToText(s)
	}

	s = markdownLinkRe.ReplaceAllString(s, "$1")
	s = bareURLRe.ReplaceAllString(s, "")
	s = domainCiteRe.ReplaceAllString(s, "")
	s = boldStarRe.ReplaceAllString(s, "$1")
	s = boldUnderRe.ReplaceAllString(s, "$1")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// htmlToText extracts the text of an HTML fragment, keeping line breaks
// at <br> and block boundaries.
func htmlToText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, blockquote").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return doc.Text()
}
