package crypto

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func fastArgon2() *Argon2 {
	return &Argon2{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestBcrypt_HashAndVerify(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		candidate string
		want      bool
	}{
		{name: "matching password", password: "testPassword123", candidate: "testPassword123", want: true},
		{name: "wrong password", password: "testPassword123", candidate: "testPassword124", want: false},
		{name: "case sensitive", password: "Secret", candidate: "secret", want: false},
		{name: "unicode", password: "пароль🔐", candidate: "пароль🔐", want: true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			b := &Bcrypt{Cost: bcrypt.MinCost}
			hash, err := b.Hash(test.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}

			// Act
			got, err := b.Verify(test.candidate, hash)

			// Assert
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if got != test.want {
				t.Errorf("Verify() = %v, want %v", got, test.want)
			}
		})
	}
}

// Requirement: hashes produced by PHP's password_hash ($2y$) verify.
func TestBcrypt_Verify_AcceptsPHPPrefix(t *testing.T) {
	// Arrange
	b := &Bcrypt{Cost: bcrypt.MinCost}
	hash, err := b.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	phpHash := "$2y$" + strings.TrimPrefix(hash, "$2a$")

	// Act
	ok, err := b.Verify("hunter22", phpHash)

	// Assert
	if err != nil || !ok {
		t.Errorf("Verify($2y$) = %v, %v; want true, nil", ok, err)
	}
}

func TestBcrypt_Verify_InvalidHash(t *testing.T) {
	b := NewBcrypt()

	ok, err := b.Verify("password", "$2a$not-a-hash")

	if ok {
		t.Error("Verify() should fail for malformed hash")
	}
	if !errors.Is(err, ErrInvalidHash) {
		t.Errorf("Verify() error = %v, want ErrInvalidHash", err)
	}
}

func TestArgon2_HashAndVerify(t *testing.T) {
	// Arrange
	a := fastArgon2()

	// Act
	hash, err := a.Hash("testPassword123")

	// Assert
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("Hash() = %q, want $argon2id$v=19$ prefix", hash)
	}
	if ok, err := a.Verify("testPassword123", hash); err != nil || !ok {
		t.Errorf("Verify(correct) = %v, %v", ok, err)
	}
	if ok, err := a.Verify("wrong", hash); err != nil || ok {
		t.Errorf("Verify(wrong) = %v, %v", ok, err)
	}

	// Parameters come from the hash, not the instance
	if ok, _ := NewArgon2().Verify("testPassword123", hash); !ok {
		t.Error("Verify() with different instance parameters should still succeed")
	}
}

func TestArgon2_Verify_InvalidHashes(t *testing.T) {
	tests := []struct {
		name    string
		hash    string
		wantErr error
	}{
		{name: "empty", hash: "", wantErr: ErrInvalidHash},
		{name: "too few parts", hash: "$argon2id$v=19$m=1024", wantErr: ErrInvalidHash},
		{name: "wrong algorithm", hash: "$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5", wantErr: ErrUnsupportedHashType},
		{name: "bad version", hash: "$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5", wantErr: ErrInvalidHash},
		{name: "bad params", hash: "$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5", wantErr: ErrInvalidHash},
		{name: "bad salt", hash: "$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5", wantErr: ErrInvalidHash},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			ok, err := fastArgon2().Verify("password", test.hash)
			if ok {
				t.Error("Verify() should not succeed")
			}
			if !errors.Is(err, test.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

// Requirement: the combined handler picks the algorithm from the stored hash.
func TestPasswords_VerifyDispatchesOnPrefix(t *testing.T) {
	bcryptHash, _ := (&Bcrypt{Cost: bcrypt.MinCost}).Hash("s3cret!")
	argonHash, _ := fastArgon2().Hash("s3cret!")

	tests := []struct {
		name    string
		hash    string
		want    bool
		wantErr error
	}{
		{name: "bcrypt", hash: bcryptHash, want: true},
		{name: "argon2id", hash: argonHash, want: true},
		{name: "plain text", hash: "s3cret!", want: false, wantErr: ErrUnsupportedHashType},
		{name: "md5", hash: "5f4dcc3b5aa765d61d8327deb882cf99", want: false, wantErr: ErrUnsupportedHashType},
	}

	p := NewPasswords()
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			got, err := p.Verify("s3cret!", test.hash)
			if got != test.want {
				t.Errorf("Verify() = %v, want %v", got, test.want)
			}
			if test.wantErr == nil && err != nil {
				t.Errorf("Verify() unexpected error = %v", err)
			}
			if test.wantErr != nil && !errors.Is(err, test.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}
