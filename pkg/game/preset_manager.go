package game

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/decker502/trackgen/pkg/config"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ErrPresetNotFound 预设不存在
var ErrPresetNotFound = errors.New("preset not found")

// 存储路径常量
const (
	presetObject   = "presets"
	presetIndexKey = "index"
	// LastUsedPreset 预览工具退出前保存的预设名
	LastUsedPreset = "last"
)

// PresetManager 创作预设管理器
//
// 在工具会话之间保存赛道配置（不保存生成的布局，布局总是由种子重新生成）。
// gdataManager 为 nil 时降级为仅内存保存。
type PresetManager struct {
	gdataManager *gdata.Manager
	memory       map[string][]byte
}

// NewPresetManager 创建预设管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
func NewPresetManager(gdataManager *gdata.Manager) *PresetManager {
	return &PresetManager{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}
}

// Persistent 是否能跨会话保存
func (pm *PresetManager) Persistent() bool {
	return pm.gdataManager != nil
}

// Save 保存预设
func (pm *PresetManager) Save(name string, cfg *config.TrackConfig) error {
	if name == "" || name == presetIndexKey {
		return fmt.Errorf("invalid preset name %q", name)
	}
	if cfg == nil {
		return fmt.Errorf("track config cannot be nil")
	}

	data, err := config.MarshalTrackConfig(cfg)
	if err != nil {
		return err
	}

	if pm.gdataManager == nil {
		pm.memory[name] = data
		return nil
	}

	if err := pm.gdataManager.SaveObjectProp(presetObject, name, data); err != nil {
		return fmt.Errorf("failed to save preset %s: %w", name, err)
	}
	if err := pm.addToIndex(name); err != nil {
		return err
	}

	log.Printf("[PresetManager] Preset %s saved (seed %d)", name, cfg.Seed)
	return nil
}

// Load 加载预设，文件中缺失的字段取默认值
func (pm *PresetManager) Load(name string) (*config.TrackConfig, error) {
	data, err := pm.loadRaw(name)
	if err != nil {
		return nil, err
	}

	cfg, err := config.ParseTrackConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse preset %s: %w", name, err)
	}
	return cfg, nil
}

// Exists 预设是否存在
func (pm *PresetManager) Exists(name string) bool {
	if pm.gdataManager == nil {
		_, ok := pm.memory[name]
		return ok
	}
	return pm.gdataManager.ObjectPropExists(presetObject, name)
}

// List 按名称排序返回所有预设
func (pm *PresetManager) List() ([]string, error) {
	if pm.gdataManager == nil {
		names := make([]string, 0, len(pm.memory))
		for name := range pm.memory {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, nil
	}
	return pm.loadIndex()
}

func (pm *PresetManager) loadRaw(name string) ([]byte, error) {
	if pm.gdataManager == nil {
		data, ok := pm.memory[name]
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, ErrPresetNotFound)
		}
		return data, nil
	}

	if !pm.gdataManager.ObjectPropExists(presetObject, name) {
		return nil, fmt.Errorf("%s: %w", name, ErrPresetNotFound)
	}
	data, err := pm.gdataManager.LoadObjectProp(presetObject, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load preset %s: %w", name, err)
	}
	return data, nil
}

func (pm *PresetManager) loadIndex() ([]string, error) {
	if !pm.gdataManager.ObjectPropExists(presetObject, presetIndexKey) {
		return []string{}, nil
	}
	data, err := pm.gdataManager.LoadObjectProp(presetObject, presetIndexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load preset index: %w", err)
	}
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preset index: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (pm *PresetManager) addToIndex(name string) error {
	names, err := pm.loadIndex()
	if err != nil {
		// 索引损坏时重建
		log.Printf("[PresetManager] Warning: %v (rebuilding index)", err)
		names = nil
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	names = append(names, name)
	sort.Strings(names)

	data, err := yaml.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal preset index: %w", err)
	}
	if err := pm.gdataManager.SaveObjectProp(presetObject, presetIndexKey, data); err != nil {
		return fmt.Errorf("failed to save preset index: %w", err)
	}
	return nil
}
