package stylometry

import "testing"

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"the", 1},
		{"hello", 2},
		{"apple", 2},
		{"paddle", 2},
		{"little", 2},
		{"kettle", 2},
		{"syllable", 3},
		{"nation", 2},
		{"prism", 2},
		{"mcdonald", 3},
		{"HELLO", 2},
		{"don't", 1},
		{"e", 1},
		{"", 0},
		{"42", 0},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := CountSyllables(tt.word); got != tt.want {
				t.Errorf("CountSyllables(%q) = %d, want %d", tt.word, got, tt.want)
			}
		})
	}
}
