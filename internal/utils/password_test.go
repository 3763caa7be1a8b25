package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("correct password should verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password should not verify")
	}
}

func TestHashPassword_ClampsOutOfRangeCost(t *testing.T) {
	// A cost below bcrypt's minimum comes from a misconfigured
	// BCRYPT_COST; hashing must still succeed with a usable cost.
	hash, err := HashPassword("s3cret", 0)
	if err != nil {
		t.Fatalf("HashPassword with cost 0: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want default %d", cost, bcrypt.DefaultCost)
	}
}
