package db

import (
	"IdleCity/internal/shared/serverconfig"
	"testing"
)

func TestDSN_默认字符集(t *testing.T) {
	got := DSN(serverconfig.MySQLConfig{Host: "127.0.0.1", Port: 3306, User: "root", Password: "pw", DBName: "idle"})
	want := "root:pw@tcp(127.0.0.1:3306)/idle?charset=utf8mb4&parseTime=True&loc=Local"
	if got != want {
		t.Fatalf("got=%s want=%s", got, want)
	}
}
