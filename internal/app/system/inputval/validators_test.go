package inputval

import "testing"

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		// Valid URLs
		{"http://example.com", true},
		{"https://example.com", true},
		{"https://placehold.co/1200x400/7c3aed/fff?text=Streetwear", true},
		{"http://localhost:8080", true},

		// Valid with whitespace (trimmed)
		{"  https://example.com  ", true},

		// Invalid URLs
		{"", false},
		{"   ", false},
		{"ftp://example.com", false},
		{"mailto:user@example.com", false},
		{"example.com", false},
		{"//example.com", false},
		{"not a url", false},
		{"file:///path/to/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := IsValidHTTPURL(tt.url)
			if got != tt.want {
				t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsValidObjectID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"507f1f77bcf86cd799439011", true},
		{"000000000000000000000000", true},
		{"FFFFFFFFFFFFFFFFFFFFFFFF", true},
		{"  507f1f77bcf86cd799439011  ", true},

		{"", false},
		{"507f1f77bcf86cd79943901", false},   // too short
		{"507f1f77bcf86cd7994390111", false}, // too long
		{"507f1f77bcf86cd79943901g", false},  // invalid hex char
		{"not-a-valid-id", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := IsValidObjectID(tt.id)
			if got != tt.want {
				t.Errorf("IsValidObjectID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type TestInput struct {
		Name  string `validate:"required,max=10" label:"Full name"`
		Email string `validate:"required,email" label:"Email address"`
	}

	tests := []struct {
		name       string
		input      TestInput
		wantErrors bool
		wantFirst  string
	}{
		{
			name:       "valid input",
			input:      TestInput{Name: "John", Email: "john@example.com"},
			wantErrors: false,
		},
		{
			name:       "missing name",
			input:      TestInput{Name: "", Email: "john@example.com"},
			wantErrors: true,
			wantFirst:  "Full name is required.",
		},
		{
			name:       "name too long",
			input:      TestInput{Name: "VeryLongNameThatExceedsLimit", Email: "john@example.com"},
			wantErrors: true,
			wantFirst:  "Full name must be at most 10 characters.",
		},
		{
			name:       "invalid email",
			input:      TestInput{Name: "John", Email: "not-an-email"},
			wantErrors: true,
			wantFirst:  "A valid email address is required.",
		},
		{
			name:       "missing both",
			input:      TestInput{Name: "", Email: ""},
			wantErrors: true,
			wantFirst:  "Full name is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)

			if result.HasErrors() != tt.wantErrors {
				t.Errorf("Validate() HasErrors = %v, want %v", result.HasErrors(), tt.wantErrors)
			}

			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("Validate() First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestResult_All(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &Result{}
		if r.All() != "" {
			t.Errorf("All() = %q, want empty", r.All())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{
				{Message: "Error 1"},
				{Message: "Error 2"},
			},
		}
		want := "Error 1; Error 2"
		if r.All() != want {
			t.Errorf("All() = %q, want %q", r.All(), want)
		}
	})
}

func TestValidate_CustomRules(t *testing.T) {
	type ProfileInput struct {
		Gender string `validate:"omitempty,usergender" label:"Gender"`
		Avatar string `validate:"omitempty,httpurl" label:"Avatar"`
	}
	type RefInput struct {
		ID string `validate:"required,objectid" label:"Product ID"`
	}
	type DropInput struct {
		Status string `validate:"omitempty,dropstatus" label:"Status"`
	}

	t.Run("valid gender", func(t *testing.T) {
		if r := Validate(ProfileInput{Gender: "NON_BINARY"}); r.HasErrors() {
			t.Errorf("unexpected errors: %v", r.Errors)
		}
	})

	t.Run("invalid gender", func(t *testing.T) {
		r := Validate(ProfileInput{Gender: "robot"})
		if !r.HasErrors() {
			t.Fatal("expected errors")
		}
		if r.First() != "Gender is invalid." {
			t.Errorf("First() = %q", r.First())
		}
	})

	t.Run("invalid avatar url", func(t *testing.T) {
		r := Validate(ProfileInput{Avatar: "javascript:alert(1)"})
		if r.First() != "Avatar must be an http or https URL." {
			t.Errorf("First() = %q", r.First())
		}
	})

	t.Run("invalid object id", func(t *testing.T) {
		r := Validate(RefInput{ID: "12345"})
		if r.First() != "Product ID is not a valid id." {
			t.Errorf("First() = %q", r.First())
		}
	})

	t.Run("drop status", func(t *testing.T) {
		if r := Validate(DropInput{Status: "live"}); r.HasErrors() {
			t.Errorf("unexpected errors: %v", r.Errors)
		}
		if r := Validate(DropInput{Status: "sold"}); !r.HasErrors() {
			t.Error("expected error for unknown status")
		}
	})
}
