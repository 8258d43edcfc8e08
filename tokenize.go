// tokenize.go -- split documents into lowercase word n-grams
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mhlsh

import (
	"regexp"
	"strings"
)

// nonWord matches one or more non-word characters; equivalent to the
// reference's `\W+` split.
var nonWord = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Tokenize splits doc into lowercase words on runs of non-word characters and
// derives the set of n-grams of width n. Sequences shorter than minLength
// produce no n-grams; sequences shorter than n produce a single n-gram
// spanning the whole sequence. A run of consecutive separators counts as one
// split; a leading or trailing separator produces an empty word, which is
// retained as an empty token -- this matches the reference tokenizer and must
// not be "cleaned up".
//
// The result is a deduplicated set of n-grams, each rendered as a single byte
// string with a single 0x20 byte joining adjacent words.
func Tokenize(doc []byte, n, minLength int) map[string]struct{} {
	words := splitWords(doc)

	tokens := make(map[string]struct{})
	for _, gram := range ngrams(words, n, minLength) {
		tokens[joinWords(gram)] = struct{}{}
	}
	return tokens
}

func splitWords(doc []byte) []string {
	parts := nonWord.Split(string(doc), -1)
	for i, w := range parts {
		parts[i] = strings.ToLower(w)
	}
	return parts
}

// ngrams derives the n-gram windows: too short a sequence
// yields nothing; a sequence shorter than n yields itself as one n-gram;
// otherwise every contiguous window of width n.
func ngrams(words []string, n, minLength int) [][]string {
	if len(words) < minLength {
		return nil
	}
	if len(words) < n {
		return [][]string{words}
	}

	out := make([][]string, 0, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		out = append(out, words[i:i+n])
	}
	return out
}

func joinWords(words []string) string {
	return strings.Join(words, " ")
}
