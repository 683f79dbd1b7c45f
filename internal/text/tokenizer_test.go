package text

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "blank separators", in: "   ", want: nil},
		{name: "lowercases", in: "Song A X Rock Alpha", want: []string{"song", "rock", "alpha"}},
		{name: "strips punctuation", in: "Don't Stop (Live), Vol. 2!", want: []string{"don", "stop", "live", "vol"}},
		{name: "drops stop words", in: "The Sound of the Underground", want: []string{"sound", "underground"}},
		{name: "keeps repeats", in: "Rock Rock rock", want: []string{"rock", "rock", "rock"}},
		{name: "keeps digits and underscores", in: "track_01 1999", want: []string{"track_01", "1999"}},
		{name: "unicode letters", in: "Björk Sigur Rós", want: []string{"björk", "sigur", "rós"}},
		{name: "only stop words", in: "the and of", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTermCounts(t *testing.T) {
	got := TermCounts([]string{"rock", "song", "rock"})
	want := map[string]int{"rock": 2, "song": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TermCounts = %v, want %v", got, want)
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"the", "and", "yourselves"} {
		if !IsStopWord(w) {
			t.Errorf("%q should be a stop word", w)
		}
	}
	for _, w := range []string{"rock", "jazz", "song"} {
		if IsStopWord(w) {
			t.Errorf("%q should not be a stop word", w)
		}
	}
}
