// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以读取内置的默认配置与模板目录。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/decker502/trackgen/pkg/config"
)

// 内置资源路径
const (
	TrackConfigPath = "data/track.yaml"
	CatalogPath     = "data/catalog.yaml"
)

var (
	dataFS      fs.FS
	initialized bool
)

// Init 初始化数据文件系统
// 必须在 main() 开始时、任何资源加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径并检查前缀
func normalize(path string) (string, error) {
	if !initialized {
		return "", fmt.Errorf("embedded package not initialized, call Init() first")
	}

	// 标准化路径分隔符为正斜杠（embed.FS 使用正斜杠）
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")

	if !strings.HasPrefix(path, "data/") {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return path, nil
}

// ReadFile 读取内置文件内容，路径必须以 "data/" 开头
func ReadFile(path string) ([]byte, error) {
	path, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, path)
}

// Exists 检查内置文件是否存在
func Exists(path string) bool {
	path, err := normalize(path)
	if err != nil {
		return false
	}
	_, err = fs.Stat(dataFS, path)
	return err == nil
}

// Glob 在内置文件中匹配
func Glob(pattern string) ([]string, error) {
	pattern, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(dataFS, pattern)
}

// LoadTrackConfig 加载内置的默认赛道配置
func LoadTrackConfig() (*config.TrackConfig, error) {
	data, err := ReadFile(TrackConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded %s: %w", TrackConfigPath, err)
	}
	cfg, err := config.ParseTrackConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid embedded %s: %w", TrackConfigPath, err)
	}
	return cfg, nil
}

// LoadCatalog 加载内置的默认模板目录
func LoadCatalog() (*config.CatalogConfig, error) {
	data, err := ReadFile(CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded %s: %w", CatalogPath, err)
	}
	catalog, err := config.ParseCatalogConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid embedded %s: %w", CatalogPath, err)
	}
	return catalog, nil
}
