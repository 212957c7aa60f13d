package db

import (
	"testing"

	"Geocache/internal/shared/serverconfig"
)

func TestDSN_默认字符集(t *testing.T) {
	got := DSN(serverconfig.MySQLConfig{User: "u", Password: "p", Host: "h", Port: 3306, DBName: "geo"})
	want := "u:p@tcp(h:3306)/geo?charset=utf8mb4&parseTime=True&loc=Local"
	if got != want {
		t.Fatalf("期望 %s, got %s", want, got)
	}
}
