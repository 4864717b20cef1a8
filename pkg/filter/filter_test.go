package filter

import (
	"fmt"
	"slices"
	"sync"
	"testing"
)

func TestFilter_Filter(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		text  string
		want  string
	}{
		{"Exact match", []string{"bomb"}, "bomb", "**"},
		{"Substring in context", []string{"bomb"}, "a bomb here", "a ** here"},
		{"Repeated term", []string{"bomb"}, "bomb bomb", "** **"},
		{"Adjacent terms", []string{"bomb"}, "bombbomb", "****"},
		{"Noise inside term", []string{"bad"}, "b@ad", "**"},
		{"Several noise chars", []string{"bad"}, "b.-a_*d", "**"},
		{"Leading and trailing noise kept", []string{"bad"}, "@bad!", "@**!"},
		{"Mixed script", []string{"坏蛋"}, "你是坏蛋吗", "你是**吗"},
		{"Noise between ideographs", []string{"坏蛋"}, "你是坏❤蛋吗", "你是**吗"},
		{"First term end wins", []string{"ab", "abc"}, "abc", "**c"},
		{"No match", []string{"xyz"}, "abcxy", "abcxy"},
		{"Unfinished candidate at end", []string{"bad"}, "xba", "xba"},
		{"Unfinished candidate with noise at end", []string{"bad"}, "xb-a", "xb-a"},
		{"Noise kept when candidate fails", []string{"bad"}, "b@x", "b@x"},
		{"Noise kept when candidate fails late", []string{"bad"}, "ba-t", "ba-t"},
		{"Restart one past candidate start", []string{"abd", "bc"}, "abc", "a**"},
		{"Case sensitive", []string{"bomb"}, "BOMB", "BOMB"},
		{"Digits are content", []string{"666"}, "call 6-6-6 now", "call ** now"},
		{"Whitespace only", []string{"bomb"}, "   ", "   "},
		{"Empty text", []string{"bomb"}, "", ""},
		{"Non-BMP noise", []string{"bad"}, "b😀ad", "**"},
		{"Cyrillic is noise", []string{"ab"}, "aжb", "**"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.terms)
			if got := f.Filter(tt.text); got != tt.want {
				t.Errorf("Filter(%q) = %q; want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFilter_FilterEmptyDictionary(t *testing.T) {
	texts := []string{
		"hello world",
		"b@ad",
		"你是坏蛋吗",
		"  \t\n",
		"x\xffy",
		"😀",
	}

	for _, f := range []*Filter{New(nil), Build(nil), New([]string{""}), nil} {
		for _, text := range texts {
			if got := f.Filter(text); got != text {
				t.Errorf("Filter(%q) = %q; want input unchanged", text, got)
			}
		}
	}
}

func TestFilter_FilterMalformedInput(t *testing.T) {
	f := New([]string{"bad"})

	tests := []struct {
		name string
		text string
		want string
	}{
		{"Invalid byte passed through", "x\xffy", "x\xffy"},
		{"Invalid byte is noise inside a term", "b\xffad", "**"},
		{"Invalid byte kept next to a term", "\xfebad\xff", "\xfe**\xff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Filter(tt.text); got != tt.want {
				t.Errorf("Filter(%q) = %q; want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFilter_Redact(t *testing.T) {
	f := New([]string{"bomb", "bad"})

	tests := []struct {
		text      string
		want      string
		wantCount int
	}{
		{"nothing here", "nothing here", 0},
		{"bomb", "**", 1},
		{"a bad bomb, a b-o-m-b", "a ** **, a **", 3},
		{"", "", 0},
		{" \t\n ", " \t\n ", 0},
	}

	for _, tt := range tests {
		got, n := f.Redact(tt.text)
		if got != tt.want || n != tt.wantCount {
			t.Errorf("Redact(%q) = (%q, %d); want (%q, %d)", tt.text, got, n, tt.want, tt.wantCount)
		}
	}
}

func TestFilter_Contains(t *testing.T) {
	f := New([]string{"bad"})

	if !f.Contains("so b.a.d") {
		t.Error("Contains() = false; want true for a noisy occurrence")
	}
	if f.Contains("so good") {
		t.Error("Contains() = true; want false for clean text")
	}
	if f.Contains("") {
		t.Error("Contains() = true; want false for empty text")
	}
}

func TestFilter_WithPlaceholder(t *testing.T) {
	f := New([]string{"bomb"}, WithPlaceholder("[removed]"))

	want := "a [removed] here"
	if got := f.Filter("a bomb here"); got != want {
		t.Errorf("Filter() = %q; want %q", got, want)
	}
}

func TestFilter_WithLongestMatch(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		text  string
		want  string
	}{
		{"Longer term wins", []string{"ab", "abc"}, "abc", "**"},
		{"Falls back to shorter term", []string{"ab", "abc"}, "abx", "**x"},
		{"Shorter term at end of text", []string{"ab", "abc"}, "ab", "**"},
		{"Noise after shorter term is kept", []string{"ab", "abc"}, "ab-", "**-"},
		{"Noise inside longer term", []string{"ab", "abc"}, "a.b.c", "**"},
		{"Partial longer term", []string{"ab", "abcd"}, "abcx", "**cx"},
		{"Scan resumes after commit", []string{"ab", "abc", "x"}, "abx x", "**** **"},
		{"No match", []string{"ab", "abc"}, "acb", "acb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.terms, WithLongestMatch())
			if got := f.Filter(tt.text); got != tt.want {
				t.Errorf("Filter(%q) = %q; want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFilter_Len(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		want  int
	}{
		{"No terms", nil, 0},
		{"Distinct terms", []string{"a", "ab", "b"}, 3},
		{"Duplicates inserted once", []string{"bomb", "bomb", "bomb"}, 1},
		{"Empty terms rejected", []string{"", "bad", ""}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.terms).Len(); got != tt.want {
				t.Errorf("Len() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestBuild_Seq(t *testing.T) {
	terms := map[string]struct{}{"bad": {}, "bomb": {}}

	f := Build(func(yield func(string) bool) {
		for term := range terms {
			if !yield(term) {
				return
			}
		}
	})

	if f.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", f.Len())
	}
	want := "** and **"
	if got := f.Filter("bad and bomb"); got != want {
		t.Errorf("Filter() = %q; want %q", got, want)
	}
}

func TestFilter_Concurrent(t *testing.T) {
	f := New([]string{"bomb", "bad", "坏蛋", "ab", "abc"})

	var texts []string
	for i := 0; i < 200; i++ {
		texts = append(texts, fmt.Sprintf("%d: a b-o-m-b, 你是坏蛋吗 abc b@d %d", i, i*7))
	}

	want := make([]string, len(texts))
	for i, text := range texts {
		want[i] = f.Filter(text)
	}

	got := make([]string, len(texts))
	var wg sync.WaitGroup
	wg.Add(len(texts))
	for i, text := range texts {
		go func(i int, text string) {
			defer wg.Done()
			got[i] = f.Filter(text)
		}(i, text)
	}
	wg.Wait()

	if !slices.Equal(got, want) {
		t.Errorf("concurrent results differ from sequential ones\nwant %q\ngot  %q", want, got)
	}
}
