package stdlib

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// RegisterCrypto binds the `crypto` library: crypto_sha256, crypto_hmac,
// crypto_aes_encrypt, crypto_aes_decrypt, crypto_rand_bytes, crypto_pbkdf2,
// grounded on
// the teacher's cryptoanalysis.CryptoAnalysisModule's EncryptAES/
// DecryptAES/HashSHA256, all results surfaced as hex strings since Rossa
// has no byte-array Value kind (spec.md §3.2).
func RegisterCrypto(reg *extern.Registry) {
	reg.Register("crypto", "sha256", cryptoSHA256)
	reg.Register("crypto", "hmac", cryptoHMAC)
	reg.Register("crypto", "aes_encrypt", cryptoAESEncrypt)
	reg.Register("crypto", "aes_decrypt", cryptoAESDecrypt)
	reg.Register("crypto", "rand_bytes", cryptoRandBytes)
	reg.Register("crypto", "pbkdf2", cryptoPBKDF2)
}

func cryptoSHA256(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	data, err := argString(args, 0, "crypto_sha256")
	if err != nil {
		return value.Nil, err
	}
	sum := sha256.Sum256([]byte(data))
	return value.Str(hex.EncodeToString(sum[:])), nil
}

func cryptoHMAC(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	data, err := argString(args, 0, "crypto_hmac")
	if err != nil {
		return value.Nil, err
	}
	key, err := argString(args, 1, "crypto_hmac")
	if err != nil {
		return value.Nil, err
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return value.Str(hex.EncodeToString(mac.Sum(nil))), nil
}

func keyFromHex(args []value.Value, i int, fn string) ([]byte, error) {
	s, err := argString(args, i, fn)
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: key must be hex-encoded: %w", fn, err)
	}
	return key, nil
}

func cryptoAESEncrypt(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	plaintext, err := argString(args, 0, "crypto_aes_encrypt")
	if err != nil {
		return value.Nil, err
	}
	key, err := keyFromHex(args, 1, "crypto_aes_encrypt")
	if err != nil {
		return value.Nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return value.Nil, fmt.Errorf("crypto_aes_encrypt: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return value.Nil, fmt.Errorf("crypto_aes_encrypt: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return value.Nil, fmt.Errorf("crypto_aes_encrypt: %w", err)
	}
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return value.Str(hex.EncodeToString(ciphertext)), nil
}

func cryptoAESDecrypt(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	ciphertextHex, err := argString(args, 0, "crypto_aes_decrypt")
	if err != nil {
		return value.Nil, err
	}
	key, err := keyFromHex(args, 1, "crypto_aes_decrypt")
	if err != nil {
		return value.Nil, err
	}
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return value.Nil, fmt.Errorf("crypto_aes_decrypt: ciphertext must be hex-encoded: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return value.Nil, fmt.Errorf("crypto_aes_decrypt: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return value.Nil, fmt.Errorf("crypto_aes_decrypt: %w", err)
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return value.Nil, fmt.Errorf("crypto_aes_decrypt: ciphertext too short")
	}
	nonce, ct := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return value.Nil, fmt.Errorf("crypto_aes_decrypt: %w", err)
	}
	return value.Str(string(plaintext)), nil
}

func cryptoRandBytes(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	n, err := argNumber(args, 0, "crypto_rand_bytes")
	if err != nil {
		return value.Nil, err
	}
	buf := make([]byte, int(n))
	if _, err := rand.Read(buf); err != nil {
		return value.Nil, fmt.Errorf("crypto_rand_bytes: %w", err)
	}
	return value.Str(hex.EncodeToString(buf)), nil
}

// cryptoPBKDF2 derives a key the way a password-storage or
// key-stretching extension would, golang.org/x/crypto/pbkdf2 being the
// teacher's one non-stdlib crypto dependency.
func cryptoPBKDF2(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	password, err := argString(args, 0, "crypto_pbkdf2")
	if err != nil {
		return value.Nil, err
	}
	salt, err := argString(args, 1, "crypto_pbkdf2")
	if err != nil {
		return value.Nil, err
	}
	iterations, err := argNumber(args, 2, "crypto_pbkdf2")
	if err != nil {
		return value.Nil, err
	}
	keyLen, err := argNumber(args, 3, "crypto_pbkdf2")
	if err != nil {
		return value.Nil, err
	}
	derived := pbkdf2.Key([]byte(password), []byte(salt), int(iterations), int(keyLen), sha256.New)
	return value.Str(hex.EncodeToString(derived)), nil
}
