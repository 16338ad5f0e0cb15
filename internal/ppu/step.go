package ppu

// Step advances the raster by one dot. The console driver calls this three
// times per CPU instruction (spec.md §5's fixed 1:3 tick ratio); this file
// owns vblank/NMI timing and per-pixel rendering.
func (p *PPU) Step() {
	if p.scanline == -1 && p.dot == 339 && p.oddFrame && p.renderingEnabled() {
		p.scanline = 0
		p.dot = 0
	} else {
		p.dot++
		if p.dot > 340 {
			p.dot = 0
			p.scanline++
			if p.scanline > 260 {
				p.scanline = -1
				p.oddFrame = !p.oddFrame
			}
		}
	}

	switch {
	case p.scanline == 241 && p.dot == 1:
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnable != 0 && p.NMI != nil {
			p.NMI()
		}
	case p.scanline == -1 && p.dot == 1:
		p.status &^= statusVBlank | statusSprite0Hit | statusOverflow
		if p.renderingEnabled() {
			p.v = p.t
			p.latchFrameScroll()
		}
	}

	if p.scanline >= 0 && p.scanline < 240 {
		if p.dot == 1 {
			p.evaluateSprites(p.scanline)
		}
		if p.dot >= 1 && p.dot <= 256 {
			p.renderPixel(p.dot-1, p.scanline)
		}
	}
}

// latchFrameScroll derives the absolute background scroll origin for the
// coming frame from v/x. Per-scanline fine scrolling during rendering is
// not modeled; the whole frame renders against one scroll position, a
// simplification the teacher's own PPU makes explicit for the same
// reason (full cycle-accurate scroll-register stepping is out of scope).
func (p *PPU) latchFrameScroll() {
	coarseX := p.v & 0x1F
	coarseY := (p.v >> 5) & 0x1F
	ntX := (p.v >> 10) & 1
	ntY := (p.v >> 11) & 1
	fineY := (p.v >> 12) & 7

	p.frameScrollX = int(coarseX)*8 + int(p.x) + int(ntX)*256
	p.frameScrollY = int(coarseY)*8 + int(fineY) + int(ntY)*240
}

func (p *PPU) renderPixel(x, y int) {
	if p.Sink == nil {
		return
	}
	bgColor, bgPalette := p.backgroundPixel(x)
	spColor, spPalette, spBehind, isSprite0 := p.spritePixel(x, y)

	if isSprite0 && bgColor != 0 && spColor != 0 && x != 255 && p.renderingEnabled() {
		p.status |= statusSprite0Hit
	}

	var index uint16
	switch {
	case spColor != 0 && (bgColor == 0 || !spBehind):
		index = 0x10 + uint16(spPalette)*4 + uint16(spColor)
	case bgColor != 0:
		index = uint16(bgPalette)*4 + uint16(bgColor)
	default:
		index = 0
	}
	r, g, b := rgb(p.readPalette(0x3F00 + index))
	p.Sink.SetPixel(x, y, r, g, b)
}

func (p *PPU) backgroundPixel(screenX int) (color, palette uint8) {
	if p.mask&maskShowBG == 0 {
		return 0, 0
	}
	if screenX < 8 && p.mask&maskShowBGLeft == 0 {
		return 0, 0
	}

	totalX := screenX + p.frameScrollX
	totalY := p.scanline + p.frameScrollY
	ntX := (totalX / 256) % 2
	ntY := (totalY / 240) % 2
	tileX := (totalX % 256) / 8
	tileY := (totalY % 240) / 8
	fineX := totalX % 8
	fineY := totalY % 8

	ntBase := uint16(0x2000) + uint16(ntY)*0x0800 + uint16(ntX)*0x0400
	ntAddr := ntBase + uint16(tileY)*32 + uint16(tileX)
	tileIndex := p.busRead(ntAddr)

	attrAddr := ntBase + 0x03C0 + uint16(tileY/4)*8 + uint16(tileX/4)
	attrByte := p.busRead(attrAddr)
	shift := uint((tileY%4/2)*4 + (tileX%4/2)*2)
	palette = (attrByte >> shift) & 0x03

	patternBase := uint16(0)
	if p.ctrl&ctrlBGPattern != 0 {
		patternBase = 0x1000
	}
	patAddr := patternBase + uint16(tileIndex)*16 + uint16(fineY)
	lo := p.busRead(patAddr)
	hi := p.busRead(patAddr + 8)
	bit := uint(7 - fineX)
	color = ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
	return color, palette
}

// evaluateSprites selects up to 8 sprites visible on scanline y, in OAM
// order, setting the overflow flag when more than 8 qualify.
func (p *PPU) evaluateSprites(y int) {
	p.spriteCount = 0
	p.sprite0InRow = false
	height := 8
	if p.ctrl&ctrlSpriteSize16 != 0 {
		height = 16
	}

	for i := 0; i < 64; i++ {
		base := i * 4
		spriteY := int(p.oam[base])
		if y < spriteY+1 || y >= spriteY+1+height {
			continue
		}
		if p.spriteCount >= 8 {
			p.status |= statusOverflow
			break
		}
		p.sprites[p.spriteCount] = spriteSlot{
			index: i,
			y:     p.oam[base],
			tile:  p.oam[base+1],
			attr:  p.oam[base+2],
			x:     p.oam[base+3],
		}
		if i == 0 {
			p.sprite0InRow = true
		}
		p.spriteCount++
	}
}

func (p *PPU) spritePixel(screenX, screenY int) (color, palette uint8, behind, isSprite0 bool) {
	if p.mask&maskShowSprites == 0 {
		return 0, 0, false, false
	}
	if screenX < 8 && p.mask&maskShowSpriteLeft == 0 {
		return 0, 0, false, false
	}

	height := 8
	if p.ctrl&ctrlSpriteSize16 != 0 {
		height = 16
	}

	for i := 0; i < p.spriteCount; i++ {
		s := p.sprites[i]
		relX := screenX - int(s.x)
		if relX < 0 || relX > 7 {
			continue
		}
		relY := screenY - (int(s.y) + 1)
		if relY < 0 || relY >= height {
			continue
		}
		if s.attr&0x40 != 0 {
			relX = 7 - relX
		}
		if s.attr&0x80 != 0 {
			relY = height - 1 - relY
		}

		var patAddr uint16
		if height == 16 {
			tile := s.tile &^ 1
			table := uint16(s.tile&1) * 0x1000
			half := relY / 8
			patAddr = table + uint16(tile+uint8(half))*16 + uint16(relY%8)
		} else {
			table := uint16(0)
			if p.ctrl&ctrlSpritePattern != 0 {
				table = 0x1000
			}
			patAddr = table + uint16(s.tile)*16 + uint16(relY)
		}

		lo := p.busRead(patAddr)
		hi := p.busRead(patAddr + 8)
		bit := uint(7 - relX)
		c := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
		if c == 0 {
			continue
		}
		return c, s.attr & 0x03, s.attr&0x20 != 0, i == 0 && p.sprite0InRow
	}
	return 0, 0, false, false
}
