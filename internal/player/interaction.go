package player

import (
	"spherecraft/internal/block"
	"spherecraft/internal/coords"
	"spherecraft/internal/physics"
)

// Hotbar lists the block types the number keys select.
var Hotbar = []block.Type{block.Stone, block.Dirt, block.Grass}

// Target returns the block the player is looking at.
func (p *Player) Target() physics.RaycastResult {
	defer p.prof.Track("player.Target")()
	return p.editor.Target(p.GetEyePosition(), p.GetFrontVector())
}

// BreakBlock removes the targeted block.
func (p *Player) BreakBlock() (coords.BlockPos, error) {
	return p.editor.Remove(p.GetEyePosition(), p.GetFrontVector())
}

// PlaceBlock puts the selected block against the targeted face. Placements
// that would overlap the body are refused.
func (p *Player) PlaceBlock() (coords.BlockPos, error) {
	return p.editor.Place(p.GetEyePosition(), p.GetFrontVector(), p.Selected)
}

// HandleNumKey selects a hotbar slot.
func (p *Player) HandleNumKey(slot int) {
	if slot >= 0 && slot < len(Hotbar) {
		p.Selected = Hotbar[slot]
	}
}

// HandleScroll cycles the hotbar.
func (p *Player) HandleScroll(yoff float64) {
	i := 0
	for j, t := range Hotbar {
		if t == p.Selected {
			i = j
		}
	}
	switch {
	case yoff > 0:
		i = (i + 1) % len(Hotbar)
	case yoff < 0:
		i = (i + len(Hotbar) - 1) % len(Hotbar)
	}
	p.Selected = Hotbar[i]
}
