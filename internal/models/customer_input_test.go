package models

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func validInput() *CustomerInput {
	return &CustomerInput{
		FirstName: strPtr("john"),
		LastName:  strPtr("doe"),
		Email:     strPtr("John.Doe@Example.com"),
		Phone:     strPtr("555-1234"),
	}
}

func TestNormalize_CanonicalizesFields(t *testing.T) {
	in := &CustomerInput{
		FirstName: strPtr("  mary-JANE "),
		LastName:  strPtr("o'brien"),
		Email:     strPtr("  Mary.OBrien@Example.COM "),
		Phone:     strPtr(" 1234567890 "),
	}

	out, verr := in.Normalize(ModeCreate)
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}

	if *out.FirstName != "Mary-Jane" {
		t.Errorf("first_name = %q, want %q", *out.FirstName, "Mary-Jane")
	}
	if *out.LastName != "O'Brien" {
		t.Errorf("last_name = %q, want %q", *out.LastName, "O'Brien")
	}
	if *out.Email != "mary.obrien@example.com" {
		t.Errorf("email = %q, want %q", *out.Email, "mary.obrien@example.com")
	}
	if *out.Phone != "1234567890" {
		t.Errorf("phone = %q, want %q", *out.Phone, "1234567890")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first, verr := validInput().Normalize(ModeCreate)
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}

	second, verr := first.Normalize(ModeReplace)
	if verr != nil {
		t.Fatalf("unexpected validation error on second pass: %v", verr)
	}

	if *first.FirstName != *second.FirstName || *first.LastName != *second.LastName ||
		*first.Email != *second.Email || *first.Phone != *second.Phone {
		t.Errorf("normalization not idempotent: %+v vs %+v", first, second)
	}
}

func TestNormalize_Phone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"555-1234", true},
		{"1234567890", true},
		{"+11234567890", true},
		{"abc-defg", false},
		{"12-34", false},
		{"123-45-6789", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			in := validInput()
			in.Phone = strPtr(tt.phone)

			_, verr := in.Normalize(ModeCreate)
			if tt.valid && verr != nil {
				t.Fatalf("expected %q to validate, got %v", tt.phone, verr)
			}
			if !tt.valid && !verr.Has(FieldPhone, KindInvalidFormat) {
				t.Fatalf("expected invalid_format on phone for %q, got %v", tt.phone, verr)
			}
		})
	}
}

func TestNormalize_PhoneTooLong(t *testing.T) {
	in := validInput()
	in.Phone = strPtr("+1234567890123456")

	_, verr := in.Normalize(ModeCreate)
	if !verr.Has(FieldPhone, KindTooLong) {
		t.Fatalf("expected too_long on phone, got %v", verr)
	}
}

func TestNormalize_UnsafeContent(t *testing.T) {
	payloads := []string{
		"<script>alert('xss')</script>",
		"<img src=x onerror=alert(1)>",
		"javascript:alert(1)",
		"<IFRAME src=evil>",
		"< / svg>",
		"data:text/html;base64,xyz",
	}

	for _, field := range []string{FieldFirstName, FieldLastName, FieldEmail} {
		for _, payload := range payloads {
			t.Run(field+"/"+payload, func(t *testing.T) {
				in := validInput()
				switch field {
				case FieldFirstName:
					in.FirstName = strPtr(payload)
				case FieldLastName:
					in.LastName = strPtr(payload)
				case FieldEmail:
					in.Email = strPtr(payload)
				}

				_, verr := in.Normalize(ModeCreate)
				if !verr.Has(field, KindUnsafeContent) {
					t.Fatalf("expected unsafe_content on %s, got %v", field, verr)
				}
			})
		}
	}
}

func TestNormalize_NameRules(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind ErrorKind
	}{
		{"digits", "John3", KindInvalidCharacters},
		{"symbols", "Jo#hn", KindInvalidCharacters},
		{"too long", strings.Repeat("a", MaxNameLength+1), KindTooLong},
		{"blank", "   ", KindRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.FirstName = strPtr(tt.in)

			_, verr := in.Normalize(ModeCreate)
			if !verr.Has(FieldFirstName, tt.kind) {
				t.Fatalf("expected %s on first_name, got %v", tt.kind, verr)
			}
		})
	}
}

func TestNormalize_NameAtMaxLength(t *testing.T) {
	in := validInput()
	in.LastName = strPtr(strings.Repeat("b", MaxNameLength))

	if _, verr := in.Normalize(ModeCreate); verr != nil {
		t.Fatalf("expected %d character name to pass, got %v", MaxNameLength, verr)
	}
}

func TestNormalize_InvalidEmail(t *testing.T) {
	for _, email := range []string{"not-an-email", "a@", "@example.com", "a b@example.com"} {
		t.Run(email, func(t *testing.T) {
			in := validInput()
			in.Email = strPtr(email)

			_, verr := in.Normalize(ModeCreate)
			if !verr.Has(FieldEmail, KindInvalidFormat) {
				t.Fatalf("expected invalid_format on email, got %v", verr)
			}
		})
	}
}

func TestNormalize_CollectsAllFieldErrors(t *testing.T) {
	in := &CustomerInput{
		FirstName: strPtr("J0hn"),
		Email:     strPtr("nope"),
		Phone:     strPtr("12-34"),
	}

	_, verr := in.Normalize(ModeCreate)
	if verr == nil {
		t.Fatal("expected validation error")
	}

	checks := map[string]ErrorKind{
		FieldFirstName: KindInvalidCharacters,
		FieldLastName:  KindRequired,
		FieldEmail:     KindInvalidFormat,
		FieldPhone:     KindInvalidFormat,
	}
	for field, kind := range checks {
		if !verr.Has(field, kind) {
			t.Errorf("expected %s on %s, got %v", kind, field, verr.Fields[field])
		}
	}
}

func TestNormalize_PartialOnlyChecksPresentFields(t *testing.T) {
	in := &CustomerInput{Phone: strPtr("555-9876")}

	out, verr := in.Normalize(ModePartial)
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if out.FirstName != nil || out.LastName != nil || out.Email != nil {
		t.Errorf("absent fields should stay absent: %+v", out)
	}
	if *out.Phone != "555-9876" {
		t.Errorf("phone = %q", *out.Phone)
	}
}

func TestNormalize_PartialRejectsClearedField(t *testing.T) {
	in := &CustomerInput{Email: strPtr("  ")}

	_, verr := in.Normalize(ModePartial)
	if !verr.Has(FieldEmail, KindRequired) {
		t.Fatalf("expected required on email, got %v", verr)
	}
}

func TestNormalize_MissingFieldsOnReplace(t *testing.T) {
	in := &CustomerInput{FirstName: strPtr("Ann")}

	_, verr := in.Normalize(ModeReplace)
	for _, field := range []string{FieldLastName, FieldEmail, FieldPhone} {
		if !verr.Has(field, KindRequired) {
			t.Errorf("expected required on %s", field)
		}
	}
}

func TestValidationError_Messages(t *testing.T) {
	verr := ErrDuplicateEmail()

	msgs := verr.Messages()
	if len(msgs[FieldEmail]) != 1 || msgs[FieldEmail][0] != "A customer with this email already exists." {
		t.Errorf("unexpected messages: %v", msgs)
	}
	if !strings.Contains(verr.Error(), "email") {
		t.Errorf("error string should mention the field: %q", verr.Error())
	}
}
