package ws

import (
	"encoding/json"
	"errors"

	"github.com/go-think/openssl"

	"Geocache/internal/shared/security"
)

var ErrNoSecretKey = errors.New("ws secret key not negotiated")

// Codec 负责帧的编解码：json -> (aes-cbc) -> gzip。
// needSecret 关闭时只压缩不加密。
type Codec struct {
	needSecret bool
}

func NewCodec(needSecret bool) Codec {
	return Codec{needSecret: needSecret}
}

func (c Codec) NeedSecret() bool {
	return c.needSecret
}

func (c Codec) Encode(body *RespBody, key string) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	if c.needSecret {
		if key == "" {
			return nil, ErrNoSecretKey
		}
		data, err = security.AesCBCEncrypt(data, []byte(key), []byte(key), openssl.ZEROS_PADDING)
		if err != nil {
			return nil, err
		}
	}
	return security.Zip(data)
}

func (c Codec) Decode(frame []byte, key string) (*ReqBody, error) {
	data, err := security.UnZip(frame)
	if err != nil {
		return nil, err
	}
	if c.needSecret {
		if key == "" {
			return nil, ErrNoSecretKey
		}
		data, err = security.AesCBCDecrypt(data, []byte(key), []byte(key), openssl.ZEROS_PADDING)
		if err != nil {
			return nil, err
		}
	}
	body := &ReqBody{}
	if err := json.Unmarshal(data, body); err != nil {
		return nil, err
	}
	return body, nil
}

// EncodeHandshake 握手帧只压缩，客户端此时还没有密钥。
func (c Codec) EncodeHandshake(key string) ([]byte, error) {
	data, err := json.Marshal(&RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: key}})
	if err != nil {
		return nil, err
	}
	return security.Zip(data)
}
