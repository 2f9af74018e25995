package utils_test

import (
	"strings"
	"testing"

	"github.com/phase2/todo-api/internal/utils"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "Plain address",
			email:   "a@b.com",
			wantErr: false,
		},
		{
			name:    "Address with allowed local-part characters",
			email:   "first.last+tag%x-y@example.co.uk",
			wantErr: false,
		},
		{
			name:    "Missing at sign",
			email:   "not-an-email",
			wantErr: true,
		},
		{
			name:    "Missing TLD",
			email:   "user@localhost",
			wantErr: true,
		},
		{
			name:    "Single letter TLD",
			email:   "user@example.c",
			wantErr: true,
		},
		{
			name:    "Empty",
			email:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		wantDetail string
	}{
		{
			name:       "Exactly 8 bytes",
			password:   "12345678",
			wantDetail: "",
		},
		{
			name:       "Exactly 72 bytes",
			password:   strings.Repeat("a", 72),
			wantDetail: "",
		},
		{
			name:       "Too short",
			password:   "1234567",
			wantDetail: "Password must be at least 8 characters",
		},
		{
			name:       "73 bytes",
			password:   strings.Repeat("a", 73),
			wantDetail: "Password exceeds maximum length of 72 bytes",
		},
		{
			name:       "24 three-byte runes is 72 bytes",
			password:   strings.Repeat("€", 24),
			wantDetail: "",
		},
		{
			name:       "25 three-byte runes exceeds the byte limit",
			password:   strings.Repeat("€", 25),
			wantDetail: "Password exceeds maximum length of 72 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.ValidatePassword(tt.password)
			if tt.wantDetail == "" {
				if err != nil {
					t.Errorf("ValidatePassword() unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantDetail {
				t.Errorf("ValidatePassword() error = %v, want %q", err, tt.wantDetail)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{
			name:    "Short title",
			title:   "Buy milk",
			wantErr: false,
		},
		{
			name:    "Exactly 200 characters",
			title:   strings.Repeat("x", 200),
			wantErr: false,
		},
		{
			name:    "201 characters",
			title:   strings.Repeat("x", 201),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.ValidateTitle(tt.title)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTitle() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDescription(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantErr     bool
	}{
		{
			name:        "Empty",
			description: "",
			wantErr:     false,
		},
		{
			name:        "Exactly 1000 characters",
			description: strings.Repeat("y", 1000),
			wantErr:     false,
		},
		{
			name:        "1001 characters",
			description: strings.Repeat("y", 1001),
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.ValidateDescription(tt.description)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDescription() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrimTitle(t *testing.T) {
	if got := utils.TrimTitle("  Buy milk \n"); got != "Buy milk" {
		t.Errorf("TrimTitle() = %q, want %q", got, "Buy milk")
	}
}
