package service

import (
	"errors"
	"testing"

	"dendrite/internal/domain"
)

func TestIncrementVariantName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"first letter", "a", "b"},
		{"mid alphabet", "m", "n"},
		{"single z rolls over", "z", "aa"},
		{"trailing z carries", "az", "ba"},
		{"double z rolls over", "zz", "aaa"},
		{"carry stops at non-z", "ayz", "aza"},
		{"long name", "abc", "abd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IncrementVariantName(tt.in); got != tt.want {
				t.Errorf("IncrementVariantName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseOptionRef(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    OptionRef
		wantErr bool
	}{
		{"dashes", "12-b-3", OptionRef{12, "b", 3}, false},
		{"multi letter variant", "7-aa-1", OptionRef{7, "aa", 1}, false},
		{"mixed separators", "12.b/3", OptionRef{12, "b", 3}, false},
		{"separator runs collapse", "12--b--3", OptionRef{12, "b", 3}, false},
		{"surrounding space", " 12-b-3 ", OptionRef{12, "b", 3}, false},
		{"two parts", "12-b", OptionRef{}, true},
		{"four parts", "12-b-3-4", OptionRef{}, true},
		{"non numeric page", "x-b-3", OptionRef{}, true},
		{"digit in variant name", "12-b2-3", OptionRef{}, true},
		{"uppercase variant name", "12-B-3", OptionRef{}, true},
		{"zero page", "0-b-3", OptionRef{}, true},
		{"zero option", "12-b-0", OptionRef{}, true},
		{"empty", "", OptionRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptionRef(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseOptionRef(%q) = %+v, want error", tt.in, got)
				}
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("ParseOptionRef(%q) error = %v, want ErrValidation", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOptionRef(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseOptionRef(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptionRefString(t *testing.T) {
	ref := OptionRef{PageNumber: 12, VariantName: "b", OptionNumber: 3}
	if got := ref.String(); got != "12-b-3" {
		t.Errorf("String() = %q, want %q", got, "12-b-3")
	}
}
