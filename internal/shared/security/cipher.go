package security

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/go-think/openssl"
)

var ErrCipherTextTooShort = errors.New("cipher text shorter than iv")

// Cipher 是存档用的 AES-CBC 加解密：密文 = iv(16) + AES-CBC(PKCS7(plain))。
type Cipher struct {
	key []byte
}

func NewCipher(key string) (*Cipher, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("aes key length must be 16/24/32, got=%d", len(key))
	}
	return &Cipher{key: []byte(key)}, nil
}

func (c *Cipher) Encrypt(plain []byte) ([]byte, error) {
	iv := make([]byte, 16)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}
	enc, err := openssl.AesCBCEncrypt(plain, c.key, iv, openssl.PKCS7_PADDING)
	if err != nil {
		return nil, err
	}
	return append(iv, enc...), nil
}

func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	if len(data) < 16 {
		return nil, ErrCipherTextTooShort
	}
	return openssl.AesCBCDecrypt(data[16:], c.key, data[:16], openssl.PKCS7_PADDING)
}
