package naming

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "01-red.tif", "01-red.tif"},
		{"already canonical with variant", "23-blue-2.tif", "23-blue-2.tif"},
		{"spaces to dashes", "01 red.tif", "01-red.tif"},
		{"space run collapses", "01   red.tif", "01-red.tif"},
		{"tab is whitespace", "01\tred.tif", "01-red.tif"},
		{"space plus variant", "01 red 3.tif", "01-red-3.tif"},
		{"mixed space and dash variant", "01 red-3.tif", "01-red-3.tif"},
		{"unseparated variant", "01-red2.tif", "01-red-2.tif"},
		{"unseparated multi-digit variant", "01-red22.tif", "01-red-22.tif"},
		{"separated variant untouched", "01-red-2.tif", "01-red-2.tif"},
		{"bare id stem untouched", "01.tif", "01.tif"},
		{"single letter token variant", "10-b2.tif", "10-b-2.tif"},
		{"tiff extension kept", "01 green.tiff", "01-green.tiff"},
		{"no extension", "01 red", "01-red"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Normalizing an already-normalized name must be a no-op.
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"01-red.tif", "23-blue-2.tif", "01 red 3.tif", "44-guleinoiena.tif",
		"10-b2.tif", "01   red.tif", "7-bf.tif",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent on %q: %q -> %q", in, once, twice)
		}
	}
}

// Scenario: two raw names collapsing to one normalized name. The clobber
// itself is the index's job; here we only pin the collision precondition.
func TestNormalize_LossyCollision(t *testing.T) {
	a := Normalize("01 red 3.tif")
	b := Normalize("01 red-3.tif")
	if a != b || a != "01-red-3.tif" {
		t.Errorf("expected both to normalize to 01-red-3.tif, got %q and %q", a, b)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string

		wantID      string
		wantToken   string
		wantVariant int
		wantHas     bool
		wantErr     error
	}{
		{
			name: "simple", in: "01-red.tif",
			wantID: "01", wantToken: "red",
		},
		{
			name: "with variant", in: "23-blue-2.tif",
			wantID: "23", wantToken: "blue", wantVariant: 2, wantHas: true,
		},
		{
			name: "misspelled token", in: "44-guleinoiena.tif",
			wantID: "44", wantToken: "guleinoiena",
		},
		{
			name: "multi segment token", in: "01-bf-actuallyblue.tif",
			wantID: "01", wantToken: "bf-actuallyblue",
		},
		{
			name: "token then variant", in: "01-deep-red-12.tif",
			wantID: "01", wantToken: "deep-red", wantVariant: 12, wantHas: true,
		},
		{
			name: "numeric token becomes variant", in: "01-3.tif",
			wantID: "01", wantToken: "", wantVariant: 3, wantHas: true,
		},
		{
			name: "uppercase extension", in: "01-red.TIF",
			wantID: "01", wantToken: "red",
		},
		{
			name: "tiff extension", in: "01-red.tiff",
			wantID: "01", wantToken: "red",
		},
		{
			name: "no channel token", in: "01.tif",
			wantErr: ErrNoChannelToken,
		},
		{
			name: "wrong extension", in: "01-red.png",
			wantErr: ErrBadExtension,
		},
		{
			name: "no extension", in: "01-red",
			wantErr: ErrBadExtension,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(tt.in, "/plate/"+tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if rec.ImageID != tt.wantID {
				t.Errorf("ImageID = %q, want %q", rec.ImageID, tt.wantID)
			}
			if rec.Token != tt.wantToken {
				t.Errorf("Token = %q, want %q", rec.Token, tt.wantToken)
			}
			if rec.Variant != tt.wantVariant || rec.HasVariant != tt.wantHas {
				t.Errorf("Variant = %d/%v, want %d/%v",
					rec.Variant, rec.HasVariant, tt.wantVariant, tt.wantHas)
			}
			if rec.Name != tt.in {
				t.Errorf("Name = %q, want %q", rec.Name, tt.in)
			}
		})
	}
}

func TestParse_ConfiguredExtensions(t *testing.T) {
	rec, err := Parse("01-red.png", "/plate/01-red.png", ".png")
	if err != nil {
		t.Fatalf("Parse with .png allowed: %v", err)
	}
	if rec.ImageID != "01" || rec.Token != "red" {
		t.Errorf("got %q/%q, want 01/red", rec.ImageID, rec.Token)
	}

	if _, err := Parse("01-red.tif", "/plate/01-red.tif", ".png"); !errors.Is(err, ErrBadExtension) {
		t.Errorf("Parse(.tif with only .png allowed) error = %v, want ErrBadExtension", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		token string
		want  Channel
	}{
		// First-letter rule.
		{"red", ChannelRed},
		{"reed", ChannelRed},
		{"R", ChannelRed},
		{"green", ChannelGreen},
		{"guleinoiena", ChannelGreen},
		{"GrEeN", ChannelGreen},
		{"blue", ChannelBlue},
		{"b", ChannelBlue},
		{"bl", ChannelBlue},
		{"blbfue", ChannelBlue}, // bf not at the start: still blue

		// Brightfield prefix wins over the first-letter rule.
		{"bf", ChannelBrightfield},
		{"bfue", ChannelBrightfield},
		{"BF", ChannelBrightfield},
		{"Bf-actuallybluetrustme", ChannelBrightfield},

		// Everything else.
		{"", ChannelUnknown},
		{"cyan", ChannelUnknown},
		{"dapi", ChannelUnknown},
		{"42", ChannelUnknown},
	}
	for _, tt := range tests {
		if got := Classify(tt.token); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestChannelMergeable(t *testing.T) {
	for _, c := range MergeChannels {
		if !c.Mergeable() {
			t.Errorf("%q should be mergeable", c)
		}
	}
	for _, c := range []Channel{ChannelBrightfield, ChannelUnknown} {
		if c.Mergeable() {
			t.Errorf("%q should not be mergeable", c)
		}
	}
}
