package hw

// BackgroundControl is the parsed control word of one background layer.
type BackgroundControl struct {
	// CharBlock selects the 16 KiB character data base block (0–3).
	CharBlock int
	// ScreenBlock selects the 2 KiB tilemap base block (0–31).
	ScreenBlock int
	// SizeClass selects the tilemap dimensions (0–3), see MapSize.
	SizeClass int
}

// ParseBackgroundControl decodes a raw BGnCNT-style control word.
func ParseBackgroundControl(raw uint16) BackgroundControl {
	return BackgroundControl{
		CharBlock:   int(raw >> 2 & 0x3),
		ScreenBlock: int(raw >> 8 & 0x1F),
		SizeClass:   int(raw >> 14 & 0x3),
	}
}

// MapSize returns the tilemap dimensions in tiles for the layer's size
// class: 32×32, 64×32, 32×64 or 64×64.
func (c BackgroundControl) MapSize() (w, h int) {
	switch c.SizeClass {
	case 1:
		return 64, 32
	case 2:
		return 32, 64
	case 3:
		return 64, 64
	default:
		return 32, 32
	}
}

// MapEntry is one parsed text-mode tilemap entry.
type MapEntry struct {
	Tile         int // tile id within the char block; 0 is the empty convention
	HFlip, VFlip bool
	Bank         int // palette bank, 0–15
}

// ParseMapEntry decodes a raw tilemap word.
func ParseMapEntry(raw uint16) MapEntry {
	return MapEntry{
		Tile:  int(raw & 0x3FF),
		HFlip: raw&0x0400 != 0,
		VFlip: raw&0x0800 != 0,
		Bank:  int(raw >> 12),
	}
}
