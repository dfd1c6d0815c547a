package security

import "testing"

func TestHashPasswordProducesSaltedHashes(t *testing.T) {
	const password = "testPassword123"

	first, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if first == "" || first == password {
		t.Fatalf("HashPassword() returned %q, want a real hash", first)
	}

	second, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ because of the salt")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("mySecurePassword")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"correct password", "mySecurePassword", hash, true},
		{"incorrect password", "wrongPassword", hash, false},
		{"empty password", "", hash, false},
		{"garbage hash", "mySecurePassword", "not-a-bcrypt-hash", false},
		{"empty hash", "mySecurePassword", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.password, tt.hash); got != tt.want {
				t.Errorf("CheckPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}
