package redis_client

import (
	"testing"

	"github.com/creasty/defaults"
)

func TestConfigAddr(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected string
	}{
		{
			name:     "localhost",
			config:   Config{Host: "localhost", Port: "16379"},
			expected: "localhost:16379",
		},
		{
			name:     "custom host and port",
			config:   Config{Host: "redis.example.com", Port: "6380"},
			expected: "redis.example.com:6380",
		},
		{
			name:     "ipv4 address",
			config:   Config{Host: "192.168.1.100", Port: "6379"},
			expected: "192.168.1.100:6379",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.Addr(); got != tt.expected {
				t.Errorf("Addr() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var cnf Config
	if err := defaults.Set(&cnf); err != nil {
		t.Fatalf("defaults.Set() failed: %v", err)
	}

	if cnf.Addr() != "127.0.0.1:6379" {
		t.Errorf("default Addr() = %v, want 127.0.0.1:6379", cnf.Addr())
	}
	if cnf.DB != 0 {
		t.Errorf("default DB = %v, want 0", cnf.DB)
	}
}

func TestConfigDefaultsKeepExplicitValues(t *testing.T) {
	cnf := Config{Host: "redis.internal", Port: "6380", DB: 3}
	if err := defaults.Set(&cnf); err != nil {
		t.Fatalf("defaults.Set() failed: %v", err)
	}

	if cnf.Addr() != "redis.internal:6380" {
		t.Errorf("Addr() = %v, want redis.internal:6380", cnf.Addr())
	}
	if cnf.DB != 3 {
		t.Errorf("DB = %v, want 3", cnf.DB)
	}
}
