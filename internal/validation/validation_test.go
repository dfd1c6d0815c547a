package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "plain address", email: "parent@example.com", wantErr: false},
		{name: "subdomain", email: "parent@mail.example.co.uk", wantErr: false},
		{name: "plus tag", email: "parent+brainblast@example.com", wantErr: false},
		{name: "surrounding whitespace is trimmed", email: "  parent@example.com  ", wantErr: false},
		{name: "no at sign", email: "parent.example.com", wantErr: true},
		{name: "no domain", email: "parent@", wantErr: true},
		{name: "no tld", email: "parent@example", wantErr: true},
		{name: "no local part", email: "@example.com", wantErr: true},
		{name: "empty", email: "", wantErr: true},
		{name: "inner space", email: "pa rent@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmailErrorNamesField(t *testing.T) {
	err := ValidateEmail("not-an-email")
	if err == nil {
		t.Fatal("expected an error")
	}
	var vErr ValidationError
	ok := false
	if v, isV := err.(ValidationError); isV {
		vErr, ok = v, true
	}
	if !ok {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	if vErr.Field != "email" {
		t.Errorf("field = %q, want %q", vErr.Field, "email")
	}
	if !strings.Contains(err.Error(), "email") {
		t.Errorf("message %q should name the field", err.Error())
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "full name", input: "Sam Rivera", wantErr: false},
		{name: "first name only", input: "Sam", wantErr: false},
		{name: "hyphenated", input: "Mary-Jane", wantErr: false},
		{name: "apostrophe", input: "O'Brien", wantErr: false},
		{name: "two characters is the minimum", input: "Jo", wantErr: false},
		{name: "one character", input: "J", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "eight characters is the minimum", password: "pass1234", wantErr: false},
		{name: "long passphrase", password: "correct horse battery staple", wantErr: false},
		{name: "seven characters", password: "pass123", wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
