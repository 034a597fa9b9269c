package nlp

import (
	"regexp"
	"strings"
	"unicode"
)

var blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)

// abbreviations that end with a period without ending a sentence
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "shri": true, "smt": true,
	"pvt": true, "ltd": true, "co": true, "inc": true, "corp": true,
	"no": true, "nos": true, "rs": true, "st": true, "vs": true, "viz": true,
	"etc": true, "e.g": true, "i.e": true, "cl": true, "sec": true, "art": true,
}

// SplitSentences splits text into sentences. Blank lines always end a
// sentence; within a paragraph, line breaks are joined and a sentence ends
// at '.', '!' or '?' followed by whitespace, unless the period closes a known
// abbreviation, a single letter or a bare number.
func SplitSentences(text string) []string {
	var sentences []string
	for _, para := range blankLineRe.Split(text, -1) {
		sentences = append(sentences, splitParagraph(para)...)
	}
	return sentences
}

func splitParagraph(para string) []string {
	para = strings.Join(strings.Fields(para), " ")
	if para == "" {
		return nil
	}

	var sentences []string
	var current strings.Builder

	for i := 0; i < len(para); i++ {
		c := para[i]
		current.WriteByte(c)

		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(para) && para[i+1] != ' ' {
			continue
		}
		if c == '.' && !endsSentence(current.String()) {
			continue
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// endsSentence reports whether the trailing period of s closes a sentence
func endsSentence(s string) bool {
	body := strings.TrimSuffix(s, ".")
	idx := strings.LastIndexByte(body, ' ')
	word := body[idx+1:]
	word = strings.TrimLeft(word, "(\"'")

	if word == "" {
		return true
	}
	if abbreviations[strings.ToLower(word)] {
		return false
	}
	if len(word) == 1 && unicode.IsLetter(rune(word[0])) {
		return false
	}
	return !isDigits(word)
}

func isDigits(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return s != ""
}
