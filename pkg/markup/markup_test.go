package markup

import (
	"reflect"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"<script>", "&lt;script&gt;"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"it's", "it&#39;s"},
		{"Tom & Jerry", "Tom &amp; Jerry"},
		{"&lt;script&gt;", "&lt;script&gt;"},
		{"&amp;&copy;", "&amp;&amp;copy;"},
		{"a&", "a&amp;"},
		{"ação <b>", "ação &lt;b&gt;"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{`<a href="x">Tom & 'Jerry'</a>`, "&&&", "&lt;&gt;", "no markup"}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestMatcherFind(t *testing.T) {
	tests := []struct {
		name string
		term string
		text string
		want []Span
	}{
		{"empty term", "", "anything", nil},
		{"case insensitive", "apple", "Apple pie and apple tart", []Span{{0, 5}, {14, 19}}},
		{"non overlapping", "aa", "aaaa", []Span{{0, 2}, {2, 4}}},
		{"dot is literal", ".", "a.b", []Span{{1, 2}}},
		{"dot does not match any char", "a.c", "abc", nil},
		{"star is literal", "*", "2*3", []Span{{1, 2}}},
		{"parens are literal", "(x)", "f(x) and fx", []Span{{1, 4}}},
		{"entity is not split", "amp", "Tom &amp; Jerry", nil},
		{"lt is not split", "lt", "&lt;b&gt; salt", []Span{{12, 14}}},
		{"escaped term matches escaped text", "<b>", "x &lt;b&gt; y", []Span{{2, 11}}},
		{"ampersand term", "Tom & Jerry", "Tom &amp; Jerry", []Span{{0, 15}}},
		{"skip then match", "t;", "&lt; t;", []Span{{5, 7}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMatcher(tt.term).Find(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Find(%q in %q) = %v, want %v", tt.term, tt.text, got, tt.want)
			}
		})
	}
}

func TestMatcherContains(t *testing.T) {
	m := NewMatcher("APPLE")
	if !m.Contains("green apple") {
		t.Error("expected case-insensitive match")
	}
	if m.Contains("banana") {
		t.Error("unexpected match")
	}
	if NewMatcher("").Contains("x") {
		t.Error("empty matcher must never match")
	}
	var zero Matcher
	if zero.Contains("x") || !zero.Empty() {
		t.Error("zero matcher must be empty")
	}
}

func TestMatcherTermSanitized(t *testing.T) {
	if got := NewMatcher("<script>").Term(); got != "&lt;script&gt;" {
		t.Fatalf("term not sanitized: %q", got)
	}
}
