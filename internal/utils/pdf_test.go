package utils

import "testing"

// TestHasPDFHeader tests the %PDF magic byte check
func TestHasPDFHeader(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want bool
	}{
		{"valid header", []byte("%PDF-1.4\n..."), true},
		{"bare magic", []byte("%PDF"), true},
		{"plain text", []byte("just some text"), false},
		{"empty", nil, false},
		{"magic not at start", []byte(" %PDF-1.4"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasPDFHeader(tc.data); got != tc.want {
				t.Errorf("HasPDFHeader(%q) = %v, want %v", tc.data, got, tc.want)
			}
		})
	}
}

// TestValidatePDFRejectsGarbage tests structural validation of non-PDF data
func TestValidatePDFRejectsGarbage(t *testing.T) {
	if err := ValidatePDF([]byte("this is not a pdf")); err == nil {
		t.Error("Expected error for non-PDF data")
	}

	// A correct header alone is not a parseable document
	if err := ValidatePDF([]byte("%PDF-1.4 but nothing else")); err == nil {
		t.Error("Expected error for truncated PDF data")
	}

	if err := ValidatePDF(nil); err == nil {
		t.Error("Expected error for empty data")
	}
}

// TestCountWords tests word counting across whitespace and punctuation
func TestCountWords(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hello", 1},
		{"hello world", 2},
		{"  spaced   out  ", 2},
		{"comma,separated,words", 3},
		{"end with punctuation.", 3},
	}

	for _, tc := range cases {
		if got := countWords(tc.text); got != tc.want {
			t.Errorf("countWords(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}
