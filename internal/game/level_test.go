package game

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadLevel_OK(t *testing.T) {
	g, err := LoadLevel(strings.NewReader(ringLevel), 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Width != 5 || g.Height != 5 || g.WallCount() != 17 {
		t.Fatalf("unexpected grid %dx%d walls=%d", g.Width, g.Height, g.WallCount())
	}
}

func TestLoadLevel_Rejects(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{"empty", "label\n", ErrEmptyLevel},
		{"no body", "label", ErrEmptyLevel},
		{"ragged", "label\n###\n##\n###\n", ErrRaggedLevel},
		{"unknown", "label\n###\n#x#\n###\n", ErrUnknownTile},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadLevel(strings.NewReader(tc.text), 32)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateLevel_ToleratesCRLF(t *testing.T) {
	if err := ValidateLevel("label\r\n###\r\n# #\r\n###\r\n"); err != nil {
		t.Fatalf("CRLF level should validate: %v", err)
	}
}

func TestLoadLevel_RaggedMessageNamesRow(t *testing.T) {
	_, err := LoadLevel(strings.NewReader("label\n####\n####\n###\n"), 32)
	if err == nil || !strings.Contains(err.Error(), "row 3") {
		t.Fatalf("expected error naming row 3, got %v", err)
	}
}
