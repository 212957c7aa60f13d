package security

import (
	"bytes"
	"testing"

	"github.com/go-think/openssl"
)

func TestZip_往返(t *testing.T) {
	raw := []byte(`{"seq":1,"name":"game.view","msg":{"bbox":"1,2,3,4"}}`)
	z, err := Zip(raw)
	if err != nil {
		t.Fatalf("Zip err=%v", err)
	}
	got, err := UnZip(z)
	if err != nil {
		t.Fatalf("UnZip err=%v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("期望 %s, got %s", raw, got)
	}
	if _, err := UnZip([]byte("not gzip")); err == nil {
		t.Fatalf("非 gzip 数据应报错")
	}
}

func TestAesCBC_往返(t *testing.T) {
	key := []byte("0123456789abcdef")
	raw := []byte(`{"seq":2,"name":"game.exchange"}`)
	enc, err := AesCBCEncrypt(raw, key, key, openssl.ZEROS_PADDING)
	if err != nil {
		t.Fatalf("encrypt err=%v", err)
	}
	dec, err := AesCBCDecrypt(enc, key, key, openssl.ZEROS_PADDING)
	if err != nil {
		t.Fatalf("decrypt err=%v", err)
	}
	if !bytes.Equal(dec, raw) {
		t.Fatalf("期望 %s, got %s", raw, dec)
	}
}
