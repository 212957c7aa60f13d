package security

import "github.com/go-think/openssl"

// AesCBCEncrypt / AesCBCDecrypt 是 ws 加密帧的编解码，key 同时用作 iv。
func AesCBCEncrypt(data, key, iv []byte, padding string) ([]byte, error) {
	return openssl.AesCBCEncrypt(data, key, iv, padding)
}

func AesCBCDecrypt(data, key, iv []byte, padding string) ([]byte, error) {
	return openssl.AesCBCDecrypt(data, key, iv, padding)
}
