package commit

import (
	"testing"
	"time"
)

func TestFormatAuthor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Jane Dev <jane@example.com>", "Jane Dev <jane@example.com>"},
		{"Jane Dev<jane@example.com>", "Jane Dev <jane@example.com>"},
		{"  Jane Dev   <jane@example.com>  ", "Jane Dev <jane@example.com>"},
		{"<jane@example.com>", "<jane@example.com>"},
		{"jane@example.com", "jane@example.com"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := FormatAuthor(tc.in); got != tc.want {
			t.Errorf("FormatAuthor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInfoAccessors(t *testing.T) {
	now := time.Now()
	info := &Info{
		Filename: "0001.patch",
		Date:     &now,
		Message:  []string{"subject", "", "body"},
		Changes: []FileChange{
			{Path: "a.c", Kind: Modified},
			{Path: "b.c", Kind: Added},
		},
	}

	if got := info.Subject(); got != "subject" {
		t.Errorf("Subject() = %q", got)
	}
	body := info.Body()
	if len(body) != 2 || body[0] != "" || body[1] != "body" {
		t.Errorf("Body() = %q", body)
	}
	paths := info.Paths()
	if len(paths) != 2 || paths[0] != "a.c" || paths[1] != "b.c" {
		t.Errorf("Paths() = %q", paths)
	}
}

func TestInfoAccessors_Empty(t *testing.T) {
	info := &Info{}
	if got := info.Subject(); got != "" {
		t.Errorf("Subject() = %q, want empty", got)
	}
	if body := info.Body(); body != nil {
		t.Errorf("Body() = %q, want nil", body)
	}
}
