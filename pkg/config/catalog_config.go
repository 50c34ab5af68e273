package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/decker502/trackgen/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultFallbackHalfWidth 模板无可测量几何且未配置近似半宽时使用的半宽
const DefaultFallbackHalfWidth = 0.5

// CatalogConfig 可实例化模板目录
//
// 由内容制作提供，不由生成器产生：
//   - Templates: 所有模板及其几何描述
//   - Obstacles: 带权重的障碍物条目，定义障碍物类型分布
//   - Star / FinishGate: 单一模板引用
type CatalogConfig struct {
	Templates         []TemplateConfig `yaml:"templates"`
	Obstacles         []WeightedEntry  `yaml:"obstacles"`
	Star              string           `yaml:"star"`
	FinishGate        string           `yaml:"finishGate"`
	FallbackHalfWidth float64          `yaml:"fallbackHalfWidth"` // 默认 0.5

	index map[string]*TemplateConfig
}

// TemplateConfig 单个模板
type TemplateConfig struct {
	ID              string     `yaml:"id"`
	Bounds          *BoxConfig `yaml:"bounds,omitempty"`          // 可视几何包围盒，nil 表示没有可视几何
	Collider        *BoxConfig `yaml:"collider,omitempty"`        // 碰撞体包围盒，nil 表示没有碰撞体
	ApproxHalfWidth float64    `yaml:"approxHalfWidth,omitempty"` // 无可测量几何时的近似半宽
	ReferenceWidth  float64    `yaml:"referenceWidth,omitempty"`  // 终点门：已知的近似参考宽度
	Value           int        `yaml:"value,omitempty"`           // 收集物：计分值
}

// BoxConfig 以中心和尺寸描述的包围盒（相对枢轴）
type BoxConfig struct {
	Center Vec3Config `yaml:"center"`
	Size   Vec3Config `yaml:"size"`
}

// Vec3Config YAML 中的三维向量
type Vec3Config struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// WeightedEntry 带权重的模板引用
// Weight ≤ 0 的条目不参与采样
type WeightedEntry struct {
	Template string  `yaml:"template"`
	Weight   float64 `yaml:"weight"`
}

// AABB 转换为局部包围盒
func (b *BoxConfig) AABB() types.AABB {
	return types.BoxAround(b.Center.Vec3(), b.Size.Vec3())
}

// Vec3 转换为 types.Vec3
func (v Vec3Config) Vec3() types.Vec3 {
	return types.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// LoadCatalogConfig 从 YAML 文件加载模板目录
func LoadCatalogConfig(filePath string) (*CatalogConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", filePath, err)
	}

	catalog, err := ParseCatalogConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog in %s: %w", filePath, err)
	}
	return catalog, nil
}

// ParseCatalogConfig 从 YAML 数据解析模板目录
func ParseCatalogConfig(data []byte) (*CatalogConfig, error) {
	var catalog CatalogConfig
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	if err := catalog.Prepare(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Prepare 应用默认值、建立索引并验证引用
// 以代码方式构造的目录在使用前也必须调用
func (c *CatalogConfig) Prepare() error {
	if c.FallbackHalfWidth <= 0 {
		c.FallbackHalfWidth = DefaultFallbackHalfWidth
	}

	c.index = make(map[string]*TemplateConfig, len(c.Templates))
	for i := range c.Templates {
		tpl := &c.Templates[i]
		if tpl.ID == "" {
			return fmt.Errorf("templates[%d]: id is required", i)
		}
		if _, dup := c.index[tpl.ID]; dup {
			return fmt.Errorf("templates[%d]: duplicate template id %q", i, tpl.ID)
		}
		if tpl.ApproxHalfWidth < 0 {
			return fmt.Errorf("template %q: approxHalfWidth cannot be negative", tpl.ID)
		}
		c.index[tpl.ID] = tpl
	}

	for i, entry := range c.Obstacles {
		if err := c.checkReference(fmt.Sprintf("obstacles[%d].template", i), entry.Template); err != nil {
			return err
		}
	}
	if c.Star != "" {
		if err := c.checkReference("star", c.Star); err != nil {
			return err
		}
	}
	if c.FinishGate != "" {
		if err := c.checkReference("finishGate", c.FinishGate); err != nil {
			return err
		}
	}
	return nil
}

// Template 按 ID 查找模板
func (c *CatalogConfig) Template(id string) (*TemplateConfig, bool) {
	if c.index == nil {
		return nil, false
	}
	tpl, ok := c.index[id]
	return tpl, ok
}

// TotalObstacleWeight 返回所有正权重条目的权重和
func (c *CatalogConfig) TotalObstacleWeight() float64 {
	total := 0.0
	for _, entry := range c.Obstacles {
		if entry.Weight > 0 {
			total += entry.Weight
		}
	}
	return total
}

// ApproxHalfWidthOf 模板的近似半宽，未配置时返回目录级回退值
func (c *CatalogConfig) ApproxHalfWidthOf(tpl *TemplateConfig) float64 {
	if tpl != nil && tpl.ApproxHalfWidth > 0 {
		return tpl.ApproxHalfWidth
	}
	if c.FallbackHalfWidth > 0 {
		return c.FallbackHalfWidth
	}
	return DefaultFallbackHalfWidth
}

// checkReference 验证模板引用，未知 ID 时给出最接近的候选
func (c *CatalogConfig) checkReference(field, id string) error {
	if id == "" {
		return fmt.Errorf("%s: template id is required", field)
	}
	if _, ok := c.index[id]; ok {
		return nil
	}
	if suggestion := c.SuggestTemplate(id); suggestion != "" {
		return fmt.Errorf("%s: unknown template %q (did you mean %q?)", field, id, suggestion)
	}
	return fmt.Errorf("%s: unknown template %q", field, id)
}

// SuggestTemplate 返回与 id 编辑距离最近的已知模板 ID
// 距离超过阈值时返回空字符串
func (c *CatalogConfig) SuggestTemplate(id string) string {
	ids := make([]string, 0, len(c.index))
	for known := range c.index {
		ids = append(ids, known)
	}
	sort.Strings(ids)

	best := ""
	bestDist := -1
	needle := strings.ToLower(id)
	for _, known := range ids {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(known))
		if dist > suggestionLimit(len(known)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best = known
			bestDist = dist
		}
	}
	return best
}

// suggestionLimit 按候选长度放宽可接受的编辑距离
func suggestionLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
