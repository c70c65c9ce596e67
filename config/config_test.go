package config

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestParse_FullConfig(t *testing.T) {
	data := []byte(`
file: ./notes.txt
mime_type: text/plain
port: 9090
signal: SIGUSR1
keepalive: 30s
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.File != "./notes.txt" {
		t.Errorf("File = %q, want %q", cfg.File, "./notes.txt")
	}
	if cfg.MIMEType != "text/plain" {
		t.Errorf("MIMEType = %q, want %q", cfg.MIMEType, "text/plain")
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %v, want 9090", cfg.Port)
	}
	if cfg.Signal != "SIGUSR1" {
		t.Errorf("Signal = %q, want %q", cfg.Signal, "SIGUSR1")
	}
	if cfg.KeepAlive.Duration() != 30*time.Second {
		t.Errorf("KeepAlive = %v, want 30s", cfg.KeepAlive.Duration())
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`file: ./notes.txt`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %v, want default 8080", cfg.Port)
	}
	if cfg.Signal != "SIGHUP" {
		t.Errorf("Signal = %q, want default SIGHUP", cfg.Signal)
	}
	if cfg.KeepAlive.Duration() != 60*time.Second {
		t.Errorf("KeepAlive = %v, want default 60s", cfg.KeepAlive.Duration())
	}
	if cfg.MIMEType != "" {
		t.Errorf("MIMEType = %q, want empty (guessed later)", cfg.MIMEType)
	}
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse([]byte(`port: 8080`))
	if err == nil {
		t.Fatal("Parse() should fail without a file")
	}
	if !strings.Contains(err.Error(), "file is required") {
		t.Errorf("error = %v, want mention of required file", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte(`file: [unterminated`))
	if err == nil {
		t.Fatal("Parse() should fail on invalid YAML")
	}
}

func TestParse_InvalidSignal(t *testing.T) {
	_, err := Parse([]byte("file: ./notes.txt\nsignal: SIGKILL\n"))
	if err == nil {
		t.Fatal("Parse() should reject unsupported signals")
	}
	if !strings.Contains(err.Error(), "unsupported signal") {
		t.Errorf("error = %v, want mention of unsupported signal", err)
	}
}

func TestParse_InvalidKeepAlive(t *testing.T) {
	_, err := Parse([]byte("file: ./notes.txt\nkeepalive: 100ms\n"))
	if err == nil {
		t.Fatal("Parse() should reject sub-second keepalive")
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte("file: ./notes.txt\nkeepalive: soon\n"))
	if err == nil {
		t.Fatal("Parse() should reject malformed durations")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error = %v, want mention of invalid duration", err)
	}
}

func TestParse_InvalidPort(t *testing.T) {
	_, err := Parse([]byte("file: ./notes.txt\nport: 70000\n"))
	if err == nil {
		t.Fatal("Parse() should reject out-of-range ports")
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("AUTOREFRESH_TEST_DOC", "/tmp/main.pdf")

	cfg, err := Parse([]byte(`file: ${AUTOREFRESH_TEST_DOC}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.File != "/tmp/main.pdf" {
		t.Errorf("File = %q, want %q", cfg.File, "/tmp/main.pdf")
	}
}

func TestParse_EnvExpansionDefault(t *testing.T) {
	cfg, err := Parse([]byte(`file: ${AUTOREFRESH_TEST_UNSET:-./fallback.txt}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.File != "./fallback.txt" {
		t.Errorf("File = %q, want %q", cfg.File, "./fallback.txt")
	}
}

func TestParse_EnvExpansionMissing(t *testing.T) {
	_, err := Parse([]byte(`file: ${AUTOREFRESH_TEST_UNSET}`))
	if err == nil {
		t.Fatal("Parse() should fail when an env var without default is unset")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("file: ./notes.txt\nport: 9999\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %v, want 9999", cfg.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Load() should fail on a missing config file")
	}
}

func TestParseSignal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    syscall.Signal
		wantErr bool
	}{
		{name: "full name", input: "SIGHUP", want: syscall.SIGHUP},
		{name: "without prefix", input: "HUP", want: syscall.SIGHUP},
		{name: "lowercase", input: "sighup", want: syscall.SIGHUP},
		{name: "usr1", input: "SIGUSR1", want: syscall.SIGUSR1},
		{name: "usr2", input: "usr2", want: syscall.SIGUSR2},
		{name: "padded", input: " SIGHUP ", want: syscall.SIGHUP},
		{name: "unsupported", input: "SIGKILL", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "refresh-me", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSignal(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSignal(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSignal(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSignal(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
