package auth

import "testing"

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4) // minimum cost keeps the test fast

	hash, err := h.Hash("p@ssw0rd")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "p@ssw0rd" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if !h.Verify(hash, "p@ssw0rd") {
		t.Fatalf("expected matching password to verify")
	}
	if h.Verify(hash, "wrong") {
		t.Fatalf("expected mismatching password to fail")
	}
}

func TestBcryptHasher_DistinctSalts(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4)

	a, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password should differ by salt")
	}
}
