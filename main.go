package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/embedded"
	"github.com/decker502/trackgen/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/quasilyte/gdata/v2"
)

const (
	WindowWidth  = 480
	WindowHeight = 800

	hudHeight    = 64  // 顶部信息栏高度
	scrollSpeed  = 1.5 // 每帧滚动的赛道长度
	presetAppKey = "trackgen_preview"
)

var (
	colorBackground = color.RGBA{R: 32, G: 36, B: 40, A: 255}
	colorGround     = color.RGBA{R: 70, G: 96, B: 70, A: 255}
	colorWall       = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	colorLane       = color.RGBA{R: 100, G: 130, B: 100, A: 255}
	colorObstacle   = color.RGBA{R: 220, G: 80, B: 60, A: 255}
	colorStar       = color.RGBA{R: 250, G: 210, B: 60, A: 255}
	colorGate       = color.RGBA{R: 90, G: 200, B: 240, A: 255}
)

// Preview 赛道俯视预览
// 实现 ebiten.Game 接口，N/P 切换种子，R 重新生成，C 清除，S/L 保存/加载预设
type Preview struct {
	em      *ecs.EntityManager
	gen     *game.TrackGenerator
	presets *game.PresetManager
	layout  *game.Layout
	view    Viewport
	message string
}

// NewPreview 创建预览并执行首次生成
func NewPreview(cfg *config.TrackConfig, catalog *config.CatalogConfig, presets *game.PresetManager) (*Preview, error) {
	em := ecs.NewEntityManager()
	gen, err := game.NewTrackGenerator(em, cfg, catalog)
	if err != nil {
		return nil, err
	}

	p := &Preview{
		em:      em,
		gen:     gen,
		presets: presets,
		view:    NewViewport(cfg, WindowWidth, WindowHeight-hudHeight),
	}
	p.regenerate(cfg.Seed)
	return p, nil
}

// Update 处理输入
func (p *Preview) Update() error {
	seed := p.gen.Config().Seed
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		p.regenerate(seed + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		p.regenerate(seed - 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		p.regenerate(seed)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if err := p.gen.ClearGenerated(); err != nil {
			p.message = err.Error()
		} else {
			p.layout = nil
			p.message = "cleared"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		p.savePreset()
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		p.loadPreset()
	}

	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		p.view.Scroll(scrollSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		p.view.Scroll(-scrollSpeed)
	}
	return nil
}

// Draw 绘制赛道
func (p *Preview) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	cfg := p.gen.Config()
	if p.layout != nil {
		p.drawTrack(screen, cfg)
	}

	status := "no layout"
	if p.layout != nil {
		status = fmt.Sprintf("seed %d  obstacles %d  stars %d  skipped %d  entities %d",
			p.layout.Seed, len(p.layout.Obstacles), len(p.layout.Stars),
			p.layout.SkippedObstacleSlots, p.em.EntityCount())
	}
	ebitenutil.DebugPrintAt(screen, status, 8, 6)
	ebitenutil.DebugPrintAt(screen, "N/P seed  R regen  C clear  S/L preset  Up/Down scroll", 8, 24)
	if p.message != "" {
		ebitenutil.DebugPrintAt(screen, p.message, 8, 42)
	}
}

func (p *Preview) drawTrack(screen *ebiten.Image, cfg *config.TrackConfig) {
	v := p.view
	x0, y0 := v.ToScreen(-cfg.HalfTrackWidth, v.FarZ())
	x1, y1 := v.ToScreen(cfg.HalfTrackWidth, v.NearZ())
	vector.DrawFilledRect(screen, x0, y0+hudHeight, x1-x0, y1-y0, colorGround, false)

	wallW := float32(cfg.WallThickness) * v.PixelsPerUnit()
	vector.DrawFilledRect(screen, x0-wallW/2, hudHeight, wallW, y1-y0, colorWall, false)
	vector.DrawFilledRect(screen, x1-wallW/2, hudHeight, wallW, y1-y0, colorWall, false)

	for _, x := range p.layout.LaneOffsets {
		lx, _ := v.ToScreen(x, 0)
		vector.StrokeLine(screen, lx, hudHeight, lx, hudHeight+y1-y0, 1, colorLane, false)
	}

	if gate := p.layout.Gate; gate != nil && v.Visible(gate.Z) {
		_, gy := v.ToScreen(0, gate.Z)
		vector.DrawFilledRect(screen, x0, gy+hudHeight-2, x1-x0, 4, colorGate, false)
	}

	for _, o := range p.layout.Obstacles {
		if !v.Visible(o.Z) {
			continue
		}
		ox, oy := v.ToScreen(o.X, o.Z)
		hw := max(float32(o.HalfWidth)*v.PixelsPerUnit(), 2)
		vector.DrawFilledRect(screen, ox-hw, oy+hudHeight-hw, hw*2, hw*2, colorObstacle, false)
		vector.StrokeRect(screen, ox-hw, oy+hudHeight-hw, hw*2, hw*2, 1, color.Black, false)
	}

	for _, s := range p.layout.Stars {
		if !v.Visible(s.Z) {
			continue
		}
		sx, sy := v.ToScreen(s.X, s.Z)
		vector.DrawFilledRect(screen, sx-3, sy+hudHeight-3, 6, 6, colorStar, false)
	}
}

// Layout 返回逻辑屏幕尺寸
func (p *Preview) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

func (p *Preview) regenerate(seed int64) {
	layout, err := p.gen.Regenerate(seed)
	if err != nil {
		p.message = err.Error()
		return
	}
	p.layout = layout
	p.message = ""
}

func (p *Preview) savePreset() {
	if err := p.presets.Save(game.LastUsedPreset, p.gen.Config()); err != nil {
		p.message = fmt.Sprintf("save failed: %v", err)
		return
	}
	p.message = fmt.Sprintf("preset saved (persistent=%v)", p.presets.Persistent())
}

func (p *Preview) loadPreset() {
	cfg, err := p.presets.Load(game.LastUsedPreset)
	if err != nil {
		p.message = fmt.Sprintf("load failed: %v", err)
		return
	}
	if err := p.gen.SetConfig(cfg); err != nil {
		p.message = err.Error()
		return
	}
	p.view = NewViewport(cfg, WindowWidth, WindowHeight-hudHeight)
	p.regenerate(cfg.Seed)
	p.message = "preset loaded"
}

func main() {
	embedded.Init(dataFS)

	cfg, err := embedded.LoadTrackConfig()
	if err != nil {
		log.Fatalf("Failed to load track config: %v", err)
	}
	catalog, err := embedded.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	// 预设存储不可用时降级为内存模式
	var gdataManager *gdata.Manager
	if m, err := gdata.Open(gdata.Config{AppName: presetAppKey}); err != nil {
		log.Printf("[Main] WARNING: preset storage unavailable, presets will not persist: %v", err)
	} else {
		gdataManager = m
	}

	preview, err := NewPreview(cfg, catalog, game.NewPresetManager(gdataManager))
	if err != nil {
		log.Fatalf("Failed to create preview: %v", err)
	}

	ebiten.SetWindowSize(WindowWidth, WindowHeight)
	ebiten.SetWindowTitle("Track Generator Preview")

	if err := ebiten.RunGame(preview); err != nil {
		log.Fatal(err)
	}
}
