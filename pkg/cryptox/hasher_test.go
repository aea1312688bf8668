package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHashers() map[string]*PasswordHasher {
	return map[string]*PasswordHasher{
		"argon2id":          NewPasswordHasher(Argon2id, ""),
		"argon2id peppered": NewPasswordHasher(Argon2id, "pepper-value"),
		"bcrypt":            {Algorithm: Bcrypt, BcryptCost: bcrypt.MinCost},
		"bcrypt peppered":   {Algorithm: Bcrypt, Pepper: "pepper-value", BcryptCost: bcrypt.MinCost},
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", Argon2id, false},
		{"argon2id", Argon2id, false},
		{" BCRYPT ", Bcrypt, false},
		{"md5", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownAlg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestHash_Argon2idFormat(t *testing.T) {
	h := NewPasswordHasher(Argon2id, "")

	hash, err := h.Hash("password123")
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6, "PHC hash should have 6 parts")
	require.Equal(t, "argon2id", parts[1])
	require.Equal(t, "v=19", parts[2])
	require.Equal(t, "m=19456,t=2,p=1", parts[3])
	require.NotEmpty(t, parts[4], "salt should not be empty")
	require.NotEmpty(t, parts[5], "hash should not be empty")
}

func TestHash_BcryptFormat(t *testing.T) {
	h := &PasswordHasher{Algorithm: Bcrypt, BcryptCost: bcrypt.MinCost}

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2a$"))
}

func TestHash_UnknownAlgorithm(t *testing.T) {
	h := &PasswordHasher{Algorithm: "scrypt"}

	_, err := h.Hash("password123")
	require.ErrorIs(t, err, ErrUnknownAlg)
}

func TestHash_NeverPlaintext(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("admin123")
			require.NoError(t, err)
			require.NotContains(t, hash, "admin123")
		})
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			hash1, err := h.Hash("samepassword")
			require.NoError(t, err)
			hash2, err := h.Hash("samepassword")
			require.NoError(t, err)

			require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
			require.True(t, h.Verify("samepassword", hash1))
			require.True(t, h.Verify("samepassword", hash2))
		})
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	passwords := []string{
		"password123",
		"P@ssw0rd!#$%^&*()",
		strings.Repeat("a", 100),
		"",
		"пароль🔒密码",
		"   spaces   ",
	}

	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			for _, pw := range passwords {
				hash, err := h.Hash(pw)
				require.NoError(t, err)
				require.True(t, h.Verify(pw, hash), "password %q should verify", pw)
			}
		})
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("correct-password")
			require.NoError(t, err)

			for _, wrong := range []string{"wrong-password", "Correct-Password", "correct-password ", "", "correct-passwor"} {
				require.False(t, h.Verify(wrong, hash))
				require.ErrorIs(t, h.Check(wrong, hash), ErrMismatch)
			}
		})
	}
}

func TestVerify_PepperMismatch(t *testing.T) {
	for _, alg := range []Algorithm{Argon2id, Bcrypt} {
		t.Run(string(alg), func(t *testing.T) {
			a := &PasswordHasher{Algorithm: alg, Pepper: "pepper-a", BcryptCost: bcrypt.MinCost}
			b := &PasswordHasher{Algorithm: alg, Pepper: "pepper-b", BcryptCost: bcrypt.MinCost}

			hash, err := a.Hash("password123")
			require.NoError(t, err)
			require.False(t, b.Verify("password123", hash))
		})
	}
}

func TestVerify_MixedAlgorithms(t *testing.T) {
	argon := NewPasswordHasher(Argon2id, "")
	bc := &PasswordHasher{Algorithm: Bcrypt, BcryptCost: bcrypt.MinCost}

	argonHash, err := argon.Hash("password123")
	require.NoError(t, err)
	bcryptHash, err := bc.Hash("password123")
	require.NoError(t, err)

	// Either hasher accepts either stored format.
	require.True(t, argon.Verify("password123", bcryptHash))
	require.True(t, bc.Verify("password123", argonHash))
}

func TestVerify_MalformedHash(t *testing.T) {
	h := NewPasswordHasher(Argon2id, "")

	tests := []struct {
		name string
		hash string
	}{
		{"empty hash", ""},
		{"plaintext", "password123"},
		{"unknown scheme", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"zero memory", "$argon2id$v=19$m=0,t=2,p=1$c2FsdA$aGFzaA"},
		{"huge memory", "$argon2id$v=19$m=4294967295,t=2,p=1$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"truncated bcrypt", "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				require.False(t, h.Verify("password123", tt.hash))
			})
			require.ErrorIs(t, h.Check("password123", tt.hash), ErrMalformedHash)
		})
	}
}
