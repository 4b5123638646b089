//go:build integration

package agraphics

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

// TestSceneRoundTrip draws a scene touching every drawing feature, exports
// it, loads it back and checks pixels from Lua.
func TestSceneRoundTrip(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "scene.png")
	writeUnit(t, dir, "scene.lua", fmt.Sprintf(`
local ag = require "agraphics"
local V, C = ag.Vector2, ag.Color

local function near(a, b) return math.abs(a - b) < 0.03 end
local function expect(s, x, y, r, g, b)
  local p = s:get_pixel(x, y)
  assert(near(p.r, r) and near(p.g, g) and near(p.b, b),
    string.format("pixel %%d,%%d = %%s", x, y, tostring(p)))
end

local s = ag.Surface.new(V.new(64, 64))
local cr = ag.Context.new(s)

cr:set_source_color(C.new(1, 1, 1))
cr:paint()

cr:set_source_color(C.parse("#ff0000"))
cr:rectangle(0, 0, 32, 32)
cr:fill()

local grad = ag.LinearGradientPattern.new(V.new(32, 0), V.new(64, 0))
grad:add_color_stop(0, C.new(0, 0, 1))
grad:add_color_stop(1, C.new(0, 0, 1))
cr:set_source_pattern(grad)
cr:rectangle(32, 0, 32, 32)
cr:fill()

cr:push_group()
cr:set_source_color(C.new(0, 1, 0):darker(0.5))
cr:rectangle(0, 32, 32, 32)
cr:fill()
cr:pop_group_to_source()
cr:paint()

cr:save()
cr:translate(48, 48)
cr:arc(0, 0, 8, 0, 2 * math.pi)
cr:clip()
cr:set_source_color(C.new(0, 0, 0))
cr:paint()
cr:restore()

s:export(%q)
local back = ag.Surface.new_from_png(%q)
assert(back.width == 64 and back.height == 64)

expect(back, 16, 16, 1, 0, 0)
expect(back, 48, 16, 0, 0, 1)
expect(back, 16, 48, 0, 0.5, 0)
expect(back, 48, 48, 0, 0, 0)
expect(back, 60, 60, 1, 1, 1)
`, out, out))

	runner := newTestRunner(t, dir)
	if err := runner.Run(context.Background(), "scene"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
