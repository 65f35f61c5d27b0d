package norm

import (
	"reflect"
	"testing"
)

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Colonia", "colonia"},
		{"  HIP   36601 ", "hip 36601"},
		{"Shinrarta\tDezhra", "shinrarta dezhra"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Name(tt.in); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSpecies(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Aleoida Arcus", "Aleoida Arcus"},
		{"$Codex_Ent_Aleoids_03_K_Name;", "Aleoids 03 K"},
		{"bacterium aurasus", "Bacterium Aurasus"},
		{"  stratum   tectonicas ", "Stratum Tectonicas"},
	}
	for _, tt := range tests {
		if got := Species(tt.in); got != tt.want {
			t.Errorf("Species(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoutes(t *testing.T) {
	in := []string{"Sol", "sol", "  ", "Alioth", "ALIOTH", "Sol"}
	want := []string{"sol", "alioth", "sol"}
	if got := Routes(in); !reflect.DeepEqual(got, want) {
		t.Errorf("Routes(%v) = %v, want %v", in, got, want)
	}
}
