package artillery

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-artillery/internal/core"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/match"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/physics"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/terrain"
)

// Map cells per screen character in the close-up view. Characters are
// roughly twice as tall as wide.
const (
	closeScaleX = 4.0
	closeScaleY = 8.0
)

// Smallest screen that fits the HUD and some map.
const (
	minScreenW = 32
	minScreenH = 8
)

// camera maps map cells to screen characters inside the viewport.
type camera struct {
	x0, y0 float64 // map position of the viewport's top-left corner
	sx, sy float64 // map cells per character
	top    int     // first screen row of the viewport
}

// newCamera frames the viewport around the session's camera target, or
// the whole map when zoomed out.
func newCamera(s *match.Session, viewW, viewH, top int) camera {
	mapW, mapH := float64(s.Field().Width()), float64(s.Field().Height())
	if s.ZoomedOut() {
		return camera{sx: mapW / float64(viewW), sy: mapH / float64(viewH), top: top}
	}

	tx, ty := s.CameraTarget()
	c := camera{sx: closeScaleX, sy: closeScaleY, top: top}
	c.x0 = frame(tx, float64(viewW)*c.sx, mapW)
	c.y0 = frame(ty, float64(viewH)*c.sy, mapH)
	return c
}

// frame centres a span on target, kept inside [0, limit). A span wider
// than the limit is centred on the map instead.
func frame(target, span, limit float64) float64 {
	if span >= limit {
		return (limit - span) / 2
	}
	return core.ClampF(target-span/2, 0, limit-span)
}

func (c camera) toScreen(x, y float64) (int, int) {
	return int(math.Floor((x - c.x0) / c.sx)), int(math.Floor((y-c.y0)/c.sy)) + c.top
}

func (c camera) toMap(col, row int) (int, int) {
	x := c.x0 + (float64(col)+0.5)*c.sx
	y := c.y0 + (float64(row-c.top)+0.5)*c.sy
	return int(math.Floor(x)), int(math.Floor(y))
}

// Render draws the match: HUD on the first row, the map, then the team
// health bars and charge meter on the last row.
func (g *Game) Render(dst *core.Screen) {
	w, h := dst.Width(), dst.Height()
	if w < minScreenW || h < minScreenH {
		dst.DrawTextCentered(h/2, "Terminal too small")
		return
	}
	if g.session == nil {
		return
	}

	s := g.session
	cam := newCamera(s, w, h-2, 1)

	drawTerrain(dst, s.Field(), cam, w, h-2)
	drawBodies(dst, s, cam, h-1)
	g.drawHUD(dst)
	drawTeamBars(dst, s)

	if s.Charging() {
		drawChargeMeter(dst, s.Charge())
	}
	if banner := g.banner(); banner != "" {
		drawBanner(dst, banner)
	}
}

// drawBanner boxes a message in the middle of the screen.
func drawBanner(dst *core.Screen, text string) {
	n := len([]rune(text))
	box := core.NewRect((dst.Width()-n-2)/2, dst.Height()/2-1, n+2, 3)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextColored(box.X+1, box.Y+1, text, core.ColorBrightWhite)
}

func drawTerrain(dst *core.Screen, f *terrain.Field, cam camera, viewW, viewH int) {
	for row := cam.top; row < cam.top+viewH; row++ {
		for col := 0; col < viewW; col++ {
			x, y := cam.toMap(col, row)
			if x < 0 || x >= f.Width() || y < 0 || y >= f.Height() {
				continue
			}
			r, c := terrainGlyph(f, x, y, int(math.Ceil(cam.sy)))
			if r != ' ' {
				dst.SetColored(col, row, r, c)
			}
		}
	}
}

// terrainGlyph shades one sample. Ground with open sky one row above
// is drawn as grass.
func terrainGlyph(f *terrain.Field, x, y, rowHeight int) (rune, core.Color) {
	code := f.Cell(x, y)
	switch {
	case code > 0:
		if y-rowHeight < 0 || !f.IsSolid(x, y-rowHeight) {
			return '▀', core.ColorGrass
		}
		return '█', core.ColorSoil
	case code <= -6:
		return '░', core.ColorSkyHigh
	case code <= -3:
		return '░', core.ColorSkyMid
	case code < 0:
		return '·', core.ColorSkyLow
	default:
		return ' ', core.ColorDefault
	}
}

func drawBodies(dst *core.Screen, s *match.Session, cam camera, bottom int) {
	controlled := s.Controlled()
	s.World().Each(func(h physics.Handle, b *physics.Body) {
		col, row := cam.toScreen(b.X, b.Y)
		if row < cam.top || row >= bottom {
			return
		}
		r, c := bodyGlyph(b)
		dst.SetColored(col, row, r, c)

		if h != controlled {
			return
		}
		if u, ok := b.Unit(); ok {
			// Aim marker a few characters out along the barrel.
			ax, ay := cam.toScreen(b.X+math.Cos(u.Aim)*3*cam.sx, b.Y+math.Sin(u.Aim)*3*cam.sy)
			if ay >= cam.top && ay < bottom {
				dst.SetColored(ax, ay, '+', core.ColorBrightYellow)
			}
		}
	})
}

func bodyGlyph(b *physics.Body) (rune, core.Color) {
	switch b.Kind() {
	case physics.KindUnit:
		u, _ := b.Unit()
		if !u.Alive() {
			return 'x', core.ColorGray
		}
		return '@', core.TeamColor(u.Team)
	case physics.KindProjectile:
		return '*', core.ColorOrange
	case physics.KindDebris:
		return '.', core.ColorGray
	default:
		return 'o', core.ColorWhite
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	s := g.session
	team := s.CurrentTeam()

	var sb strings.Builder
	fmt.Fprintf(&sb, " Turn %d  ", s.Turns())
	if s.TeamCount() > 0 {
		who := "CPU"
		if s.PlayerControl() {
			who = "YOU"
		}
		fmt.Fprintf(&sb, "Team %d (%s)", team+1, who)
	}
	dst.DrawTextColored(0, 0, sb.String(), core.TeamColor(team))

	if s.ShowCountdown() {
		timer := fmt.Sprintf("%2ds ", s.Countdown())
		c := core.ColorBrightWhite
		if s.Countdown() < 5 {
			c = core.ColorBrightRed
		}
		dst.DrawTextColored(dst.Width()-len(timer), 0, timer, c)
	}

	hint := "a/d aim  w jump  space fire  tab map"
	if s.ZoomedOut() {
		hint = "tab close-up"
	}
	if g.paused {
		hint = "PAUSED  p resume"
	}
	dst.DrawTextCenteredColored(0, hint, core.ColorGray)
}

// drawTeamBars draws one health bar per team on the last row.
func drawTeamBars(dst *core.Screen, s *match.Session) {
	n := s.TeamCount()
	if n == 0 {
		return
	}
	y := dst.Height() - 1
	slot := dst.Width() / n
	barLen := max(slot-5, 1)
	for i := 0; i < n; i++ {
		x := i * slot
		c := core.TeamColor(i)
		if !s.TeamAlive(i) {
			c = core.ColorGray
		}
		dst.DrawTextColored(x, y, fmt.Sprintf("T%d", i+1), c)
		filled := int(math.Round(s.TeamHealth(i) * float64(barLen)))
		dst.DrawHLine(x+3, y, filled, '█', c)
		dst.DrawHLine(x+3+filled, y, barLen-filled, '░', core.ColorGray)
	}
}

func drawChargeMeter(dst *core.Screen, charge float64) {
	const width = 20
	filled := int(charge * width)
	y := dst.Height() - 2
	x := (dst.Width() - width - 8) / 2
	dst.DrawTextColored(x, y, "Power ", core.ColorBrightWhite)
	dst.DrawHLine(x+6, y, filled, '■', core.ColorOrange)
	dst.DrawHLine(x+6+filled, y, width-filled, '·', core.ColorGray)
}

// banner is the centred message for the phases with no turn running.
func (g *Game) banner() string {
	s := g.session
	switch s.State() {
	case match.StateReset, match.StateGenerateTerrain, match.StateGeneratingTerrain:
		return " Shaping the landscape... "
	case match.StateAllocateUnits, match.StateAllocatingUnits:
		return " Deploying units... "
	case match.StateGameOver1, match.StateGameOver2:
		if w := s.Winner(); w >= 0 {
			return fmt.Sprintf(" Team %d wins after %d turns!  r restart  q quit ", w+1, s.Turns())
		}
		return " No survivors.  r restart  q quit "
	}
	return ""
}
