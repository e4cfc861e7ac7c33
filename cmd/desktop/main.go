package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/colornames"

	"minicpu/pkg/asm"
	"minicpu/pkg/compiler"
	"minicpu/pkg/config"
	"minicpu/pkg/grid"
	"minicpu/pkg/utils"
)

// Layout of the logical screen. The debug font is 6×16 pixels.
const (
	cellWidth  = 20
	cellHeight = 16
	gridLeft   = 36
	gridTop    = 56
	screenW    = gridLeft + grid.MemoryColumns*cellWidth + 8
)

type Game struct {
	s *session
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.s.running = false
		g.s.step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.s.toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if err := g.s.reset(); err != nil {
			return err
		}
	}
	g.s.tick(stepsPerFrame)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	ebitenutil.DebugPrintAt(screen, g.s.registers(), 4, 4)
	ebitenutil.DebugPrintAt(screen, "SPACE step   R run/pause   BACKSPACE reset", 4, 22)

	mem := g.s.vm.Memory.Bytes()
	rows := grid.Rows(len(mem), grid.MemoryColumns)
	for col := 0; col < grid.MemoryColumns; col++ {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%X", col), gridLeft+col*cellWidth+6, gridTop-cellHeight)
	}
	for i, b := range mem {
		x, y := grid.GetGridCoords(i, grid.MemoryColumns)
		if y >= rows {
			break
		}
		px := gridLeft + x*cellWidth
		py := gridTop + y*cellHeight
		if x == 0 {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%02X", grid.RowStart(i, grid.MemoryColumns)), 4, py)
		}
		cell := image.Rect(px, py, px+cellWidth-2, py+cellHeight-1)
		screen.SubImage(cell).(*ebiten.Image).Fill(g.s.cellColor(i))
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%02X", b), px+2, py)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	rows := grid.Rows(g.s.vm.Memory.Len(), grid.MemoryColumns)
	return screenW, gridTop + rows*cellHeight + 8
}

// loadImage compiles or assembles path according to its extension. Raw
// images must fit in limit bytes.
func loadImage(path string, limit int, showAsm bool) ([]byte, error) {
	switch utils.KindOf(path) {
	case utils.KindImage:
		return utils.ReadImage(path, limit)
	case utils.KindSnapshot:
		return nil, fmt.Errorf("%s: snapshots are not supported here, use minicpu run", path)
	}

	fullPath, _, err := utils.GetPathInfo(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}

	if utils.KindOf(path) == utils.KindAssembly {
		return asm.AssembleText(string(src))
	}
	out, err := compiler.Compile(string(src))
	if err != nil {
		return nil, err
	}
	if showAsm {
		fmt.Print("Generated Assembly:\n", asm.Listing(out.Instructions), "\n")
	}
	return out.Image, nil
}

func main() {
	showAsm := flag.Bool("show-asm", false, "print the generated assembly before starting")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: desktop [--show-asm] file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	image, err := loadImage(flag.Arg(0), cfg.MemorySize, *showAsm)
	if err != nil {
		log.Fatalf("Compilation failed: %v", err)
	}

	s, err := newSession(image, cfg.MemorySize)
	if err != nil {
		log.Fatalf("Load failed: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenW*2, (gridTop+grid.Rows(cfg.MemorySize, grid.MemoryColumns)*cellHeight+8)*2)
	ebiten.SetWindowTitle("minicpu debugger")

	if err := ebiten.RunGame(&Game{s: s}); err != nil {
		log.Fatal(err)
	}
}
