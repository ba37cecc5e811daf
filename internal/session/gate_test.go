package session

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"recap/internal/services"
)

func TestGatePlainPassword(t *testing.T) {
	gate, err := NewGate("moncadeau", "")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		input string
		want  bool
	}{
		{"moncadeau", true},
		{"  moncadeau\n", true},
		{"MONCADEAU", false},
		{"wrong", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := gate.Check(tt.input); got != tt.want {
			t.Errorf("Check(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGateHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open sesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	gate, err := NewGate("", string(hash))
	if err != nil {
		t.Fatal(err)
	}
	if !gate.Check(" open sesame ") {
		t.Fatal("expected hash match")
	}
	if gate.Check("open") {
		t.Fatal("unexpected match")
	}
}

func TestNewGateErrors(t *testing.T) {
	cases := []struct {
		name, password, hash string
	}{
		{"none", "", ""},
		{"both", "a", "$2a$10$abcdefghijklmnopqrstuuO2eRmWZkcV0L5o3Gk0eLw0rQ1YhnbGm"},
		{"bad hash", "", "plain-text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGate(tc.password, tc.hash)
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("letmein")
	if err != nil {
		t.Fatal(err)
	}
	gate, err := NewGate("", hash)
	if err != nil {
		t.Fatal(err)
	}
	if !gate.Check("letmein") {
		t.Fatal("hash should verify")
	}
	if _, err := HashPassword("   "); err == nil {
		t.Fatal("expected error for empty password")
	}
}
