package phone

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "local", input: "01712345678", want: "+8801712345678"},
		{name: "country code without plus", input: "8801812345678", want: "+8801812345678"},
		{name: "international", input: "+8801912345678", want: "+8801912345678"},
		{name: "lowest operator digit", input: "01312345678", want: "+8801312345678"},
		{name: "surrounding whitespace", input: "  01512345678 ", want: "+8801512345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}

			again, err := Normalize(got)
			if err != nil {
				t.Fatalf("Normalize(%q) second pass error = %v", got, err)
			}
			if again != got {
				t.Fatalf("Normalize is not idempotent: %q then %q", got, again)
			}
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrEmpty},
		{name: "blank", input: "   ", wantErr: ErrEmpty},
		{name: "operator digit too low", input: "01212345678", wantErr: ErrInvalidFormat},
		{name: "operator digit zero", input: "+8801012345678", wantErr: ErrInvalidFormat},
		{name: "too short", input: "0171234567", wantErr: ErrInvalidFormat},
		{name: "too long", input: "017123456789", wantErr: ErrInvalidFormat},
		{name: "other country", input: "+6281234567890", wantErr: ErrInvalidFormat},
		{name: "letters", input: "01712ABC678", wantErr: ErrInvalidFormat},
		{name: "double plus", input: "++8801712345678", wantErr: ErrInvalidFormat},
		{name: "inner spaces", input: "017 1234 5678", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Normalize(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != "" {
				t.Fatalf("Normalize(%q) = %q, want empty", tt.input, got)
			}
			if IsValid(tt.input) {
				t.Fatalf("IsValid(%q) = true, want false", tt.input)
			}
		})
	}
}

func TestNormalize_AllShapesAgree(t *testing.T) {
	t.Parallel()

	for d := '3'; d <= '9'; d++ {
		subscriber := string(d) + "12345678"
		local, err1 := Normalize("01" + subscriber)
		bare, err2 := Normalize("8801" + subscriber)
		intl, err3 := Normalize("+8801" + subscriber)
		if err1 != nil || err2 != nil || err3 != nil {
			t.Fatalf("operator %c: errors %v %v %v", d, err1, err2, err3)
		}
		if local != bare || bare != intl {
			t.Fatalf("operator %c: %q %q %q differ", d, local, bare, intl)
		}
	}
}

func TestMask(t *testing.T) {
	t.Parallel()

	if got, want := Mask("+8801712345678"), "+88017*****678"; got != want {
		t.Fatalf("Mask() = %q, want %q", got, want)
	}
	if got, want := Mask("123"), "***"; got != want {
		t.Fatalf("Mask() = %q, want %q", got, want)
	}
}

func TestTelURI(t *testing.T) {
	t.Parallel()

	if got, want := TelURI("+8801712345678"), "tel:+8801712345678"; got != want {
		t.Fatalf("TelURI() = %q, want %q", got, want)
	}
}
