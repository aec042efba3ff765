package utils

import "testing"

func TestIsValidRole(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"staff", true},
		{"trainer", true},
		{"owner", false},
		{"Admin", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsValidRole(tc.role); got != tc.want {
			t.Errorf("IsValidRole(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"active", true},
		{"inactive", true},
		{"suspended", true},
		{"deleted", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsValidStatus(tc.status); got != tc.want {
			t.Errorf("IsValidStatus(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestIsValidFileExtension(t *testing.T) {
	allowed := []string{"jpg", "jpeg", "png", "webp"}

	cases := []struct {
		filename string
		want     bool
	}{
		{"avatar.jpg", true},
		{"avatar.PNG", true},
		{"archive.tar.png", true},
		{"avatar.exe", false},
		{"noextension", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsValidFileExtension(tc.filename, allowed); got != tc.want {
			t.Errorf("IsValidFileExtension(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := CheckPassword("s3cret-pass", hash); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := CheckPassword("wrong-pass", hash); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"nul\x00byte", "nulbyte"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := SanitizeString(tc.in); got != tc.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateStructReturnsAppError(t *testing.T) {
	type req struct {
		Name string `validate:"required"`
	}

	if err := ValidateStruct(&req{Name: "ok"}); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}

	err := ValidateStruct(&req{})
	if err == nil {
		t.Fatal("missing required field accepted")
	}
	appErr, ok := err.(*AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Code != ErrCodeValidation {
		t.Errorf("expected code %s, got %s", ErrCodeValidation, appErr.Code)
	}
}
