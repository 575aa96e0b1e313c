package conv

import "testing"

func TestStripTags(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"Paris - Wikipedia", "Paris - Wikipedia"},
		{"<b>Paris</b> &amp; France", "Paris & France"},
		{"<script>alert(1)</script>Capital", "Capital"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := StripTags(tt.input); got != tt.expected {
				t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHTMLToText(t *testing.T) {
	got := HTMLToText("Paris is the <b>capital</b> of\n<b>France</b>.")
	want := "Paris is the capital of France."
	if got != want {
		t.Errorf("HTMLToText() = %q, want %q", got, want)
	}
}
