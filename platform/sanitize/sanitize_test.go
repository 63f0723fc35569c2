package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Fix the leaking sink", want: "Fix the leaking sink"},
		{name: "tags", in: "<b>Great</b> work<script>alert(1)</script>", want: "Great workalert(1)"},
		{name: "encoded tags", in: "&lt;img src=x&gt;hello", want: "hello"},
		{name: "spaces", in: "  too    many\tspaces  ", want: "too many spaces"},
		{name: "paragraphs", in: "first\r\n\r\n\r\n\r\nsecond", want: "first\n\nsecond"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in); got != tt.want {
				t.Fatalf("Text(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextPtr(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
	in := " <i>ok</i> "
	if got := TextPtr(&in); got == nil || *got != "ok" {
		t.Fatalf("unexpected result %v", got)
	}
}
