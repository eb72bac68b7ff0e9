package redis_client

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func testConfig(t *testing.T) (Config, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(srv.Addr())
	if err != nil {
		t.Fatalf("split miniredis addr %q: %v", srv.Addr(), err)
	}
	return Config{Host: host, Port: port}, srv
}

func TestNewConnects(t *testing.T) {
	cnf, _ := testConfig(t)

	client, err := New(cnf, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Set(ctx, "k", "v", 0).Err(); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	val, err := client.Get(ctx, "k").Result()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if val != "v" {
		t.Errorf("Get() = %v, want v", val)
	}
}

func TestNewUnreachable(t *testing.T) {
	cnf := Config{Host: "127.0.0.1", Port: "1"}
	if _, err := New(cnf, nil); err == nil {
		t.Fatal("New() should fail when the port is unreachable")
	}
}

func TestConfigLogFieldsRedactPassword(t *testing.T) {
	cnf := Config{Host: "127.0.0.1", Port: "6379", Password: "super-secret", DB: 2}

	fields := configLogFields(cnf)
	if strings.Contains(fields, cnf.Password) {
		t.Fatalf("log fields leak password: %s", fields)
	}
	if !strings.Contains(fields, "password=[REDACTED]") {
		t.Fatalf("log fields should carry the redaction marker, got: %s", fields)
	}
}

func TestConfigLogFieldsEmptyPassword(t *testing.T) {
	cnf := Config{Host: "127.0.0.1", Port: "6379"}

	fields := configLogFields(cnf)
	if !strings.Contains(fields, "password=<empty>") {
		t.Fatalf("log fields should mark the empty password, got: %s", fields)
	}
}
