package desc

import (
	"regexp"
	"strings"
)

var (
	// Index entries carry no text of their own.
	indexRe = regexp.MustCompile(`\\(?:sidx|kbdsidx|idx|label|ref|sec|secref|synt|syn|key)\{[^{}]*\}`)
	typRe   = regexp.MustCompile(`\\typ\{([^{}]*)\}`)
	funRe   = regexp.MustCompile(`\\fun\{([^{}]*)\}\{([^{}]*)\}\{([^{}]*)\}`)
	macroRe = regexp.MustCompile(`\\(?:kbd|var|tet|teb|emph|tev|b|v|em|it|bf|tt|url|doclink|key|dots)\{([^{}]*)\}`)
	mathRe  = regexp.MustCompile(`\$+([^$]*)\$+`)
	cmdRe   = regexp.MustCompile(`\\([A-Za-z]+)`)
	spaceRe = regexp.MustCompile(`[ \t]+`)
	paraRe  = regexp.MustCompile(`\n\s*\n+`)
)

// Longer commands come first: the replacer tries its pairs in order.
var symbolReplacer = strings.NewReplacer(
	`\\`, " ",
	`\left`, "",
	`\right`, "",
	`\fl`, "flag",
	`\bprog`, "",
	`\eprog`, "",
	`\item`, "*",
	`\leq`, "<=",
	`\le`, "<=",
	`\geq`, ">=",
	`\ge`, ">=",
	`\neg`, "not",
	`\neq`, "!=",
	`\ne`, "!=",
	`\infty`, "oo",
	`\cdot`, "*",
	`\times`, "x",
	`\mapsto`, "->",
	`\to`, "->",
	`\ldots`, "...",
	`\dots`, "...",
	`\pm`, "+-",
	`\_`, "_",
	`\#`, "#",
	`\%`, "%",
	`\&`, "&",
	`\{`, "{",
	`\}`, "}",
	`~`, " ",
)

// PlainDoc turns the TeX flavoured Doc field of pari.desc into plain text.
// Paragraphs are separated by a blank line; whitespace inside a paragraph
// is collapsed.
func PlainDoc(doc string) string {
	if doc == "" {
		return ""
	}
	s := indexRe.ReplaceAllString(doc, "")
	s = typRe.ReplaceAllString(s, "t_$1")
	s = funRe.ReplaceAllString(s, "$1 $2($3)")
	// Macros nest, so strip until nothing changes.
	for {
		next := macroRe.ReplaceAllString(s, "$1")
		if next == s {
			break
		}
		s = next
	}
	s = mathRe.ReplaceAllString(s, "$1")
	s = symbolReplacer.Replace(s)
	s = cmdRe.ReplaceAllString(s, "$1")
	s = strings.NewReplacer("{", "", "}", "").Replace(s)

	paras := paraRe.Split(s, -1)
	out := paras[:0]
	for _, p := range paras {
		p = spaceRe.ReplaceAllString(strings.ReplaceAll(p, "\n", " "), " ")
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
