package stylometry

import (
	"regexp"
	"strings"
)

// Heuristic English syllable counting in the style of Fast (1990):
// count vowel clusters, then correct for common patterns the cluster
// rule miscounts.

var (
	nonLetters   = regexp.MustCompile(`[^a-z]`)
	vowelCluster = regexp.MustCompile(`[aeiouy]+`)

	// Patterns the vowel-cluster count overestimates by one.
	subtractSyl = []*regexp.Regexp{
		regexp.MustCompile(`cial$`),
		regexp.MustCompile(`tia`),
		regexp.MustCompile(`cius`),
		regexp.MustCompile(`cious`),
		regexp.MustCompile(`giu`),
		regexp.MustCompile(`ion`),
		regexp.MustCompile(`iou`),
		regexp.MustCompile(`sia$`),
		regexp.MustCompile(`[^aeiouyt]ely$`),
	}

	// Patterns the vowel-cluster count underestimates by one.
	addSyl = []*regexp.Regexp{
		regexp.MustCompile(`ia`),
		regexp.MustCompile(`riet`),
		regexp.MustCompile(`dien`),
		regexp.MustCompile(`iu`),
		regexp.MustCompile(`io`),
		regexp.MustCompile(`ii`),
		regexp.MustCompile(`[aeiouym]bl$`),
		regexp.MustCompile(`[aeiou]{3}`),
		regexp.MustCompile(`^mc`),
		regexp.MustCompile(`ism$`),
		regexp.MustCompile(`(bb|cc|dd|ff|gg|kk|ll|mm|nn|pp|rr|ss|tt|zz)l$`),
		regexp.MustCompile(`[^l]lien`),
		regexp.MustCompile(`^coa[dglx].`),
		regexp.MustCompile(`[^gq]ua[^auieo]`),
		regexp.MustCompile(`dnt$`),
	}
)

// CountSyllables estimates the number of syllables in an English word.
// Always at least 1 for a word containing letters.
func CountSyllables(word string) int {
	word = nonLetters.ReplaceAllString(strings.ToLower(word), "")
	if word == "" {
		return 0
	}

	// Final silent e.
	word = strings.TrimSuffix(word, "e")
	if word == "" {
		return 1
	}

	count := len(vowelCluster.FindAllString(word, -1))
	for _, re := range subtractSyl {
		if re.MatchString(word) {
			count--
		}
	}
	for _, re := range addSyl {
		if re.MatchString(word) {
			count++
		}
	}

	if count < 1 {
		count = 1
	}
	return count
}
