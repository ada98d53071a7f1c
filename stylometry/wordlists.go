package stylometry

import (
	"bufio"
	"os"

	"github.com/stylo-ml/stylo/pkg/errors"
)

// LoadWordList reads a newline-separated word list into a set, for
// overriding the built-in pronoun, conjunction or stop-word sets.
func LoadWordList(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load word list %s", path)
	}
	defer f.Close()

	set := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := scanner.Text()
		if word != "" {
			set[word] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "load word list %s", path)
	}
	return set, nil
}

func makeSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// defaultPronouns holds the English nominative pronouns.
var defaultPronouns = makeSet(
	"i", "you", "he", "she", "it", "we", "they",
	"who", "whoever", "thou", "ye",
)

// defaultConjunctions holds the coordinating and subordinating
// conjunctions.
var defaultConjunctions = makeSet(
	// coordinating
	"for", "and", "nor", "but", "or", "yet", "so",
	// subordinating
	"after", "although", "as", "because", "before", "if", "lest",
	"once", "since", "than", "that", "though", "till", "unless",
	"until", "when", "whenever", "where", "whereas", "wherever",
	"whether", "while",
)

// defaultStopWords holds the common English function words excluded from
// the legomena and richness counts.
var defaultStopWords = makeSet(
	"a", "about", "above", "after", "again", "against", "all", "am",
	"an", "and", "any", "are", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can",
	"cannot", "could", "did", "do", "does", "doing", "down", "during",
	"each", "few", "for", "from", "further", "had", "has", "have",
	"having", "he", "her", "here", "hers", "herself", "him", "himself",
	"his", "how", "i", "if", "in", "into", "is", "it", "its", "itself",
	"me", "more", "most", "my", "myself", "no", "nor", "not", "of",
	"off", "on", "once", "only", "or", "other", "ought", "our", "ours",
	"ourselves", "out", "over", "own", "same", "she", "should", "so",
	"some", "such", "than", "that", "the", "their", "theirs", "them",
	"themselves", "then", "there", "these", "they", "this", "those",
	"through", "to", "too", "under", "until", "up", "very", "was", "we",
	"were", "what", "when", "where", "which", "while", "who", "whom",
	"why", "with", "would", "you", "your", "yours", "yourself",
	"yourselves",
)
