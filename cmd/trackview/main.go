// Package main provides a terminal top-down preview of generated tracks.
//
// Usage:
//
//	go run ./cmd/trackview [flags]
//
// Flags:
//
//	--config <path>   Track config YAML (default data/track.yaml)
//	--catalog <path>  Template catalog YAML (default data/catalog.yaml)
//
// Keys:
//
//	n / p      Next / previous seed
//	r          Regenerate with the current seed
//	j / k      Scroll along the track
//	q / Esc    Quit
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/game"
	"github.com/gdamore/tcell/v2"
)

var (
	configFlag  = flag.String("config", "data/track.yaml", "Track config YAML file")
	catalogFlag = flag.String("catalog", "data/catalog.yaml", "Template catalog YAML file")
)

// viewer 终端预览状态
type viewer struct {
	screen tcell.Screen
	gen    *game.TrackGenerator
	layout *game.Layout
	scroll int // 视口底部对应的 Z（行）
	status string
}

func main() {
	flag.Parse()
	// 生成器日志会破坏终端画面
	log.SetOutput(io.Discard)

	cfg, err := config.LoadTrackConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trackview: %v\n", err)
		os.Exit(1)
	}
	catalog, err := config.LoadCatalogConfig(*catalogFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trackview: %v\n", err)
		os.Exit(1)
	}

	gen, err := game.NewTrackGenerator(ecs.NewEntityManager(), cfg, catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trackview: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "trackview: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "trackview: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	v := &viewer{screen: screen, gen: gen}
	v.regenerate(cfg.Seed)
	v.loop()
}

func (v *viewer) loop() {
	for {
		v.draw()
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return
			}
			if ev.Key() != tcell.KeyRune {
				continue
			}
			switch ev.Rune() {
			case 'q':
				return
			case 'n':
				v.regenerate(v.gen.Config().Seed + 1)
			case 'p':
				v.regenerate(v.gen.Config().Seed - 1)
			case 'r':
				v.regenerate(v.gen.Config().Seed)
			case 'j':
				v.scroll = max(0, v.scroll-5)
			case 'k':
				v.scroll += 5
			}
		}
	}
}

func (v *viewer) regenerate(seed int64) {
	layout, err := v.gen.Regenerate(seed)
	if err != nil {
		v.status = fmt.Sprintf("error: %v", err)
		return
	}
	v.layout = layout
	v.status = fmt.Sprintf("seed %d  obstacles %d  stars %d  skipped %d",
		layout.Seed, len(layout.Obstacles), len(layout.Stars), layout.SkippedObstacleSlots)
}

func (v *viewer) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()

	styleText := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	drawText(v.screen, 0, 0, styleText, v.status)
	drawText(v.screen, 0, 1, tcell.StyleDefault.Foreground(tcell.ColorGray), "n/p seed  r regenerate  j/k scroll  q quit")

	if v.layout != nil && height > 3 {
		cols := min(width, 60)
		grid := Rasterize(v.layout, v.gen.Config(), cols, height-3, float64(v.scroll))
		for row, line := range grid {
			for col, r := range line {
				v.screen.SetContent(col, row+3, r, nil, cellStyle(r))
			}
		}
	}
	v.screen.Show()
}

func cellStyle(r rune) tcell.Style {
	switch r {
	case '|':
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case '*':
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case '=':
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case '.':
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}
