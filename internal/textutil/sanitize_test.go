package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Kuchen: Teil 1 ", "Kuchen- Teil 1"},
		{"a/b\\c", "a-b-c"},
		{"what?<now>|\"quote\"", "whatnowquote"},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Süße Speisen", "susse-speisen"},
		{"Vorspeisen & Salate", "vorspeisen-salate"},
		{"  Crème brûlée ", "creme-brulee"},
		{"Back/Kuchen", "back-kuchen"},
		{"2. Hauptgang", "2-hauptgang"},
		{"!!!", "unknown"},
		{"", "unknown"},
	}
	for _, tc := range cases {
		if got := SanitizeToken(tc.in); got != tc.want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFold(t *testing.T) {
	if got := Fold("Größe Æble"); got != "Grosse aeble" {
		t.Fatalf("unexpected fold %q", got)
	}
}
