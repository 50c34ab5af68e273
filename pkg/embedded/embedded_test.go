package embedded

import (
	"os"
	"testing"
	"testing/fstest"
)

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	// 重置状态
	initialized = false

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(fstest.MapFS{})
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}

	Init(nil)
	if IsInitialized() {
		t.Error("Init(nil) should leave the package uninitialized")
	}
}

// TestReadFileNotInitialized 测试未初始化时调用 ReadFile
func TestReadFileNotInitialized(t *testing.T) {
	initialized = false

	_, err := ReadFile("data/track.yaml")
	if err == nil {
		t.Fatal("Expected error when calling ReadFile() before Init()")
	}
	if err.Error() != "embedded package not initialized, call Init() first" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

// TestPathPrefix 测试路径规范化与前缀检查
func TestPathPrefix(t *testing.T) {
	Init(fstest.MapFS{
		"data/track.yaml": {Data: []byte("seed: 7\n")},
	})
	defer func() { initialized = false }()

	tests := []struct {
		name   string
		path   string
		exists bool
	}{
		{"标准路径", "data/track.yaml", true},
		{"带./前缀", "./data/track.yaml", true},
		{"未知前缀", "assets/track.yaml", false},
		{"不存在", "data/missing.yaml", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Exists(tt.path); got != tt.exists {
				t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.exists)
			}
		})
	}

	matches, err := Glob("data/*.yaml")
	if err != nil || len(matches) != 1 {
		t.Errorf("Expected 1 match, got %v (err %v)", matches, err)
	}
}

// TestLoadBundledData 用仓库中的 data 目录验证内置配置可以解析
func TestLoadBundledData(t *testing.T) {
	Init(os.DirFS("../.."))
	defer func() { initialized = false }()

	cfg, err := LoadTrackConfig()
	if err != nil {
		t.Fatalf("LoadTrackConfig failed: %v", err)
	}
	if cfg.Seed != 12345 || cfg.LaneCount != 3 {
		t.Errorf("Unexpected bundled track config: seed=%d lanes=%d", cfg.Seed, cfg.LaneCount)
	}

	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if _, ok := catalog.Template(catalog.Star); !ok {
		t.Error("Bundled catalog should resolve the star template")
	}
}

// TestLoadInvalidData 测试内置文件损坏时返回错误
func TestLoadInvalidData(t *testing.T) {
	Init(fstest.MapFS{
		"data/track.yaml":   {Data: []byte("laneMode: [")},
		"data/catalog.yaml": {Data: []byte("obstacles:\n  - { template: nope, weight: 1 }\n")},
	})
	defer func() { initialized = false }()

	if _, err := LoadTrackConfig(); err == nil {
		t.Error("Expected error for malformed track config")
	}
	if _, err := LoadCatalog(); err == nil {
		t.Error("Expected error for unknown template reference")
	}
}
