package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Streetwear Fans", "streetwear-fans"},
		{"  Streetwear   Fans  ", "streetwear-fans"},
		{"Y2K // Revival!!", "y2k-revival"},
		{"already-slugged", "already-slugged"},
		{"--Boho--Chic--", "boho-chic"},
		{"Café Culture", "caf-culture"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Make(tt.in); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultCover(t *testing.T) {
	got := DefaultCover("Streetwear Fans")
	want := "https://placehold.co/1200x400/7c3aed/fff?text=Streetwear%20Fans"
	if got != want {
		t.Errorf("DefaultCover = %q, want %q", got, want)
	}
}
