package tui

import (
	"testing"

	alsrt "github.com/alecthomas/assert"
)

func TestShortenPath(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		width int
		want  string
	}{
		{"fits", "Assets/Art/Props", 40, "Assets/Art/Props"},
		{"too few segments", "Assets/VeryLongFolderName", 5, "Assets/VeryLongFolderName"},
		{"drops middle", "Assets/Art/Environment/Props/Barrels", 30, "Assets/.../Props/Barrels"},
		{"keeps last only", "Assets/Art/Environment/Props/Barrels", 20, "Assets/.../Barrels"},
		{"never drops last", "Assets/Art/Environment/Props/Barrels", 5, "Assets/.../Barrels"},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alsrt.Equal(t, tt.want, ShortenPath(tt.path, tt.width))
		})
	}
}
