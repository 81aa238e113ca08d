package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TimeoutMs != 5000 {
		t.Errorf("Expected TimeoutMs 5000, got %d", cfg.TimeoutMs)
	}

	if !cfg.Multithreading {
		t.Error("Expected Multithreading enabled by default")
	}

	if !cfg.Compression {
		t.Error("Expected Compression enabled by default")
	}

	if cfg.Port != 80 {
		t.Errorf("Expected Port 80, got %d", cfg.Port)
	}

	if cfg.DecompressBackend != "klauspost" {
		t.Errorf("Expected DecompressBackend klauspost, got %s", cfg.DecompressBackend)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeoutMs = 1500
	if got := cfg.Timeout(); got != 1500*time.Millisecond {
		t.Errorf("Timeout() = %v, want 1.5s", got)
	}
	cfg.TimeoutMs = 0
	if got := cfg.Timeout(); got != 0 {
		t.Errorf("Timeout() = %v, want 0", got)
	}
}

func TestHeaderBlock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Headers = []string{"User-Agent: test", "", "Accept: */*\r\n"}

	want := "User-Agent: test\r\nAccept: */*\r\n"
	if got := cfg.HeaderBlock(); got != want {
		t.Errorf("HeaderBlock() = %q, want %q", got, want)
	}

	cfg.Headers = nil
	if got := cfg.HeaderBlock(); got != "" {
		t.Errorf("HeaderBlock() with no headers = %q, want empty", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for port 0")
	}

	cfg = DefaultConfig()
	cfg.ReceiveBufferSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero receive buffer")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	chdir(t, tmpDir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.ReceiveBufferSize != 4096 {
		t.Errorf("Expected default ReceiveBufferSize, got %d", cfg.ReceiveBufferSize)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	chdir(t, tmpDir)
	t.Setenv("QUICKGET_TIMEOUT_MS", "250")
	t.Setenv("QUICKGET_IPV6", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.TimeoutMs != 250 {
		t.Errorf("Expected TimeoutMs 250 from env, got %d", cfg.TimeoutMs)
	}
	if !cfg.IPv6 {
		t.Error("Expected IPv6 true from env")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	chdir(t, tmpDir)

	cfg := &Config{
		IPv6:              true,
		TimeoutMs:         1200,
		Multithreading:    false,
		Compression:       false,
		FastOpen:          false,
		DecompressBackend: "none",
		ReceiveBufferSize: 8192,
		Port:              8080,
		Headers:           []string{"X-Test: 1"},
		BenchRate:         10,
		BenchCount:        3,
	}

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	configPath := filepath.Join(tmpDir, ".config", "quickget", "quickget.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loadedCfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loadedCfg.Port != cfg.Port {
		t.Errorf("Port mismatch: expected %d, got %d", cfg.Port, loadedCfg.Port)
	}

	if loadedCfg.TimeoutMs != cfg.TimeoutMs {
		t.Errorf("TimeoutMs mismatch: expected %d, got %d", cfg.TimeoutMs, loadedCfg.TimeoutMs)
	}

	if loadedCfg.Multithreading != cfg.Multithreading {
		t.Errorf("Multithreading mismatch: expected %v, got %v", cfg.Multithreading, loadedCfg.Multithreading)
	}

	if len(loadedCfg.Headers) != 1 || loadedCfg.Headers[0] != "X-Test: 1" {
		t.Errorf("Headers mismatch: got %v", loadedCfg.Headers)
	}

	if GetConfigPath() != configPath {
		t.Errorf("GetConfigPath() = %s, want %s", GetConfigPath(), configPath)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}

	if !filepath.IsAbs(path) && path != "~/.config/quickget/quickget.yaml" {
		t.Errorf("GetConfigPath returned unexpected relative path: %s", path)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("Chdir restore failed: %v", err)
		}
	})
}
