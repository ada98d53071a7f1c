// Package stylometry extracts the shallow stylometric features used for
// authorship attribution: lexical richness, legomena ratios, readability,
// and bucketed distributions of sentence length, word length, pronoun and
// conjunction usage.
package stylometry

import (
	"regexp"
	"strings"

	"github.com/stylo-ml/stylo/pkg/errors"
)

// DefaultRange bounds the distribution buckets. Sentence and word
// statistics are bucketed over [1, DefaultRange) with the remaining mass
// folded into the final bucket. 25 follows Diederich et al. (2000).
const DefaultRange = 25

var (
	wordPattern     = regexp.MustCompile(`[\w']+`)
	sentencePattern = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
	cleanPattern    = regexp.MustCompile(`'s|(\r\n)|-+|["_]`)
)

// Options configures feature extraction. The zero value uses the built-in
// English word sets and DefaultRange.
type Options struct {
	// Range overrides the distribution bucket bound.
	Range int

	// Pronouns, Conjunctions and StopWords override the built-in sets.
	Pronouns     map[string]bool
	Conjunctions map[string]bool
	StopWords    map[string]bool
}

func (o Options) withDefaults() Options {
	if o.Range == 0 {
		o.Range = DefaultRange
	}
	if o.Pronouns == nil {
		o.Pronouns = defaultPronouns
	}
	if o.Conjunctions == nil {
		o.Conjunctions = defaultConjunctions
	}
	if o.StopWords == nil {
		o.StopWords = defaultStopWords
	}
	return o
}

// NumFeatures returns the width of the feature vector for the given
// options: 4 scalar features plus 4 bucketed distributions.
func NumFeatures(opts Options) int {
	opts = opts.withDefaults()
	return 4 + 4*opts.Range
}

// ExtractFeatures computes the stylometric feature vector of a document.
//
// The vector is, in order: hapax legomena over unique words, dis legomena
// over unique words, unique over total words (richness), Flesch reading
// ease divided by 100, then the sentence-length, word-length,
// pronouns-per-sentence and conjunctions-per-sentence distributions.
// The second return value is the total number of non-stop words seen.
func ExtractFeatures(text string, opts Options) ([]float64, int, error) {
	opts = opts.withDefaults()

	contents := cleanPattern.ReplaceAllString(strings.ToLower(text), " ")
	sentences := splitSentences(contents)
	if len(sentences) == 0 {
		return nil, 0, errors.NewValueError("ExtractFeatures", "no sentences found")
	}

	var (
		cleanWords      []string
		sentenceLenDist []int
		wordLenDist     []int
		pronDist        []int
		conjDist        []int
		totalWords      int
		totalSyllables  int
	)

	for _, sentence := range sentences {
		words := wordPattern.FindAllString(sentence, -1)
		if len(words) == 0 {
			continue
		}

		pronCount := 0
		conjCount := 0
		totalWords += len(words)
		sentenceLenDist = append(sentenceLenDist, len(words))
		for _, word := range words {
			totalSyllables += CountSyllables(word)
			wordLenDist = append(wordLenDist, len(word))
			if opts.Pronouns[word] {
				pronCount++
			}
			if opts.Conjunctions[word] {
				conjCount++
			}
			if !opts.StopWords[word] {
				cleanWords = append(cleanWords, word)
			}
		}
		pronDist = append(pronDist, pronCount)
		conjDist = append(conjDist, conjCount)
	}

	if totalWords == 0 || len(cleanWords) == 0 {
		return nil, 0, errors.NewValueError("ExtractFeatures", "no words found")
	}

	freq := make(map[string]int, len(cleanWords))
	for _, word := range cleanWords {
		freq[word]++
	}
	numUnique := len(freq)
	hapax, dis := 0, 0
	for _, count := range freq {
		switch count {
		case 1:
			hapax++
		case 2:
			dis++
		}
	}

	avgSentenceLength := float64(totalWords) / float64(len(sentenceLenDist))
	avgSyllablesPerWord := float64(totalSyllables) / float64(totalWords)
	readability := (206.835 - 1.015*avgSentenceLength - 84.6*avgSyllablesPerWord) / 100

	result := make([]float64, 0, 4+4*opts.Range)
	result = append(result,
		float64(hapax)/float64(numUnique),
		float64(dis)/float64(numUnique),
		float64(numUnique)/float64(len(cleanWords)),
		readability,
	)
	result = append(result, bucketDistribution(sentenceLenDist, opts.Range)...)
	result = append(result, bucketDistribution(wordLenDist, opts.Range)...)
	result = append(result, bucketDistribution(pronDist, opts.Range)...)
	result = append(result, bucketDistribution(conjDist, opts.Range)...)

	return result, len(cleanWords), nil
}

// bucketDistribution returns the relative frequency of each value in
// [1, bound) plus a final bucket holding all remaining mass, so the
// buckets always sum to 1.
func bucketDistribution(values []int, bound int) []float64 {
	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}

	dist := make([]float64, 0, bound)
	total := float64(len(values))
	sum := 0.0
	for v := 1; v < bound; v++ {
		f := float64(counts[v]) / total
		dist = append(dist, f)
		sum += f
	}
	return append(dist, 1-sum)
}

// splitSentences breaks text on terminal punctuation, dropping empty
// fragments.
func splitSentences(text string) []string {
	parts := sentencePattern.Split(strings.TrimSpace(text), -1)
	sentences := parts[:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

var (
	gutenbergStart = regexp.MustCompile(`START OF.*\n`)
	gutenbergEnd   = regexp.MustCompile(`\*\*.*END OF TH`)
)

// ExtractBookContents strips the Project Gutenberg header and footer from
// a book's raw text. Text without the markers is returned unchanged.
func ExtractBookContents(text string) string {
	if loc := gutenbergStart.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	if loc := gutenbergEnd.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	return text
}
