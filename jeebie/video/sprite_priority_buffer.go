package video

// spritePriorityBuffer resolves DMG sprite-to-sprite drawing priority
// without sorting: https://gbdev.io/pandocs/OAM.html#drawing-priority.
//
// Sprites with a lower X win; ties go to the lower OAM index. Rather than
// sort sprites by (X, OAM index) before drawing, each pixel independently
// remembers which sprite currently owns it as sprites are scanned in OAM
// order, so the winner for a given pixel is known without ever comparing
// two sprites directly against each other.
type spritePriorityBuffer struct {
	owner  [FramebufferWidth]int // OAM index owning this pixel, -1 if none
	ownerX [FramebufferWidth]int // X of the owning sprite, for tie-breaks
}

func (b *spritePriorityBuffer) reset() {
	for i := range b.owner {
		b.owner[i] = -1
		b.ownerX[i] = 0xFF
	}
}

// claim offers pixelX to a sprite at spriteX/spriteIndex and reports
// whether that sprite now owns it.
func (b *spritePriorityBuffer) claim(pixelX, spriteIndex, spriteX int) bool {
	if pixelX < 0 || pixelX >= FramebufferWidth {
		return false
	}

	switch current := b.owner[pixelX]; {
	case current == -1:
	case spriteX < b.ownerX[pixelX]:
	case spriteX == b.ownerX[pixelX] && spriteIndex < current:
	default:
		return false
	}

	b.owner[pixelX] = spriteIndex
	b.ownerX[pixelX] = spriteX
	return true
}

func (b *spritePriorityBuffer) ownerOf(pixelX int) int {
	if pixelX < 0 || pixelX >= FramebufferWidth {
		return -1
	}
	return b.owner[pixelX]
}
