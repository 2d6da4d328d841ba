// Package frontmatter synthesizes a metadata header for raw Markdown posts.
package frontmatter

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/starford/ansuz/internal/models"
)

// delimiter opens and closes a frontmatter header. A lone delimiter line in
// the raw text doubles as a Markdown section break, which is why only the
// first line of a document decides pass-through.
const delimiter = "---"

var (
	dateLineRe = regexp.MustCompile(`^\*\*Date:\*\*\s*(.*)$`)
	tagsLineRe = regexp.MustCompile(`^\*\*Tags:\*\*\s*(.*)$`)
)

// HasHeader reports whether the document already begins with a frontmatter
// header. Only the first line is inspected.
func HasHeader(data []byte) bool {
	line := string(data)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimRight(line, "\r") == delimiter
}

// Synthesize builds the output document for a post that lacks a header.
// Metadata is extracted from conventions in the raw text; resolveDate
// supplies the date when no **Date:** line exists. The consumed metadata
// lines and any leading blank or divider lines are stripped from the body.
func Synthesize(doc models.Document, resolveDate func() string) []byte {
	lines := strings.Split(string(doc.Content), "\n")
	meta, consumed := extract(doc.Name, lines)
	if meta.Date == "" {
		meta.Date = resolveDate()
	}
	return compose(meta, cleanBody(lines, consumed))
}

// extract scans the raw lines for the title, date, and tags conventions.
// The returned set holds the indices of lines consumed as metadata.
// Date is left empty when no **Date:** line carries a value.
func extract(name string, lines []string) (models.Metadata, map[int]bool) {
	var meta models.Metadata
	consumed := make(map[int]bool)

	var titleSeen, dateSeen, tagsSeen bool
	for i, line := range lines {
		if !titleSeen && strings.HasPrefix(line, "# ") {
			// First level-1 heading decides the title. An empty heading
			// still counts as seen; the filename fallback covers it.
			titleSeen = true
			if t := strings.TrimSpace(line[2:]); t != "" {
				meta.Title = t
				consumed[i] = true
			}
			continue
		}
		if !dateSeen {
			if m := dateLineRe.FindStringSubmatch(line); m != nil {
				// A **Date:** line with no value is malformed and stays
				// in play for a later match.
				if v := strings.TrimSpace(m[1]); v != "" {
					meta.Date = v
					consumed[i] = true
					dateSeen = true
				}
				continue
			}
		}
		if !tagsSeen {
			if m := tagsLineRe.FindStringSubmatch(line); m != nil {
				if tags := splitTags(m[1]); len(tags) > 0 {
					meta.Tags = tags
					consumed[i] = true
					tagsSeen = true
				}
			}
		}
	}

	if meta.Title == "" {
		meta.Title = titleFromName(name)
	}
	return meta, consumed
}

// splitTags turns "#java #ddd" into [java, ddd]. The # marker is stripped
// when present; bare tokens pass through unchanged. Order is preserved and
// duplicates are kept.
func splitTags(s string) []string {
	var out []string
	for _, tok := range strings.Fields(s) {
		tag := strings.TrimPrefix(tok, "#")
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// titleFromName derives a display title from the post slug: separators
// become spaces and each word gets an upper-case first letter, with the
// rest of the word left as written.
func titleFromName(name string) string {
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(name))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	if len(words) == 0 {
		return "Untitled"
	}
	return strings.Join(words, " ")
}

// cleanBody removes the consumed metadata lines everywhere, and blank or
// lone divider lines before the first line of real content. Once content
// starts everything is kept verbatim, dividers included.
func cleanBody(lines []string, consumed map[int]bool) string {
	var out []string
	inContent := false
	for i, line := range lines {
		if consumed[i] {
			continue
		}
		if !inContent {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || trimmed == delimiter {
				continue
			}
			inContent = true
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// compose serializes the header and concatenates the cleaned body.
// The field order is fixed; the tags line is omitted when no tags exist.
func compose(meta models.Metadata, body string) []byte {
	var b strings.Builder
	b.WriteString(delimiter + "\n")
	b.WriteString("title: " + quote(meta.Title) + "\n")
	b.WriteString("date: " + meta.Date + "\n")
	b.WriteString("draft: false\n")
	if len(meta.Tags) > 0 {
		b.WriteString("tags: [" + strings.Join(meta.Tags, ", ") + "]\n")
	}
	b.WriteString(delimiter + "\n\n")
	b.WriteString(body)
	return []byte(b.String())
}

// quote wraps s in double quotes, escaping embedded backslashes and quotes
// so the emitted header stays parseable.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
