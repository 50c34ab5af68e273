package config

import (
	"math"
	"strings"
	"testing"
)

const testCatalogYAML = `
templates:
  - id: cone
    bounds: { center: { x: 0, y: 0.4, z: 0 }, size: { x: 0.6, y: 0.8, z: 0.6 } }
  - id: barrier
    bounds: { center: { x: 0, y: 0.5, z: 0 }, size: { x: 2.4, y: 1.0, z: 0.4 } }
  - id: puddle
    approxHalfWidth: 0.9
  - id: star
  - id: gate
    referenceWidth: 10
obstacles:
  - { template: cone, weight: 3 }
  - { template: barrier, weight: 1 }
  - { template: puddle, weight: 0 }
star: star
finishGate: gate
`

// TestParseCatalogConfig 测试目录解析与索引
func TestParseCatalogConfig(t *testing.T) {
	catalog, err := ParseCatalogConfig([]byte(testCatalogYAML))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(catalog.Templates) != 5 {
		t.Errorf("Expected 5 templates, got %d", len(catalog.Templates))
	}
	if catalog.FallbackHalfWidth != DefaultFallbackHalfWidth {
		t.Errorf("Expected default fallback half width, got %.2f", catalog.FallbackHalfWidth)
	}

	barrier, ok := catalog.Template("barrier")
	if !ok {
		t.Fatal("barrier template should be indexed")
	}
	box := barrier.Bounds.AABB()
	if math.Abs(box.Min.X+1.2) > 1e-9 || math.Abs(box.Max.X-1.2) > 1e-9 {
		t.Errorf("Unexpected barrier bounds %+v", box)
	}
	if math.Abs(box.Min.Y) > 1e-9 {
		t.Errorf("Barrier should rest on its pivot, minY=%.3f", box.Min.Y)
	}

	if got := catalog.TotalObstacleWeight(); math.Abs(got-4) > 1e-9 {
		t.Errorf("Expected total weight 4 (zero weight excluded), got %.2f", got)
	}

	puddle, _ := catalog.Template("puddle")
	if got := catalog.ApproxHalfWidthOf(puddle); got != 0.9 {
		t.Errorf("Expected approx half width 0.9, got %.2f", got)
	}
	cone, _ := catalog.Template("cone")
	if got := catalog.ApproxHalfWidthOf(cone); got != DefaultFallbackHalfWidth {
		t.Errorf("Expected fallback half width, got %.2f", got)
	}
}

// TestCatalogUnknownTemplateSuggestion 测试未知模板引用给出建议
func TestCatalogUnknownTemplateSuggestion(t *testing.T) {
	data := strings.Replace(testCatalogYAML, "{ template: barrier, weight: 1 }", "{ template: barier, weight: 1 }", 1)

	_, err := ParseCatalogConfig([]byte(data))
	if err == nil {
		t.Fatal("Expected error for unknown template")
	}
	if !strings.Contains(err.Error(), `did you mean "barrier"`) {
		t.Errorf("Expected suggestion for barrier, got %v", err)
	}
}

// TestCatalogValidation 测试目录校验错误
func TestCatalogValidation(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "缺少ID",
			data:    "templates:\n  - approxHalfWidth: 1\n",
			wantErr: "id is required",
		},
		{
			name:    "重复ID",
			data:    "templates:\n  - id: a\n  - id: a\n",
			wantErr: "duplicate",
		},
		{
			name:    "未知终点门",
			data:    "templates:\n  - id: a\nfinishGate: zzzzzzzz\n",
			wantErr: "finishGate",
		},
		{
			name:    "负近似半宽",
			data:    "templates:\n  - id: a\n    approxHalfWidth: -1\n",
			wantErr: "approxHalfWidth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalogConfig([]byte(tt.data))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestSuggestTemplateDistanceLimit 测试距离过远时不给建议
func TestSuggestTemplateDistanceLimit(t *testing.T) {
	catalog := &CatalogConfig{Templates: []TemplateConfig{{ID: "cone"}, {ID: "crate"}}}
	if err := catalog.Prepare(); err != nil {
		t.Fatal(err)
	}

	if got := catalog.SuggestTemplate("Cone"); got != "cone" {
		t.Errorf("Expected case-insensitive match cone, got %q", got)
	}
	if got := catalog.SuggestTemplate("finish_gate"); got != "" {
		t.Errorf("Expected no suggestion, got %q", got)
	}
}

// TestLoadBundledCatalog 测试仓库自带的 data/catalog.yaml 可以加载
func TestLoadBundledCatalog(t *testing.T) {
	catalog, err := LoadCatalogConfig("../../data/catalog.yaml")
	if err != nil {
		t.Fatalf("Failed to load bundled catalog: %v", err)
	}
	if catalog.Star == "" || catalog.FinishGate == "" {
		t.Error("Bundled catalog should reference star and finish gate templates")
	}
	if catalog.TotalObstacleWeight() <= 0 {
		t.Error("Bundled catalog should have positive obstacle weight")
	}
}
