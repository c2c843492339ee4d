package ingest

import "github.com/veilbyte/ghostlink/internal/gfx"

// 32-bit FNV-1a. The hash is part of the wire contract between peers: both
// sides must derive the same fingerprint from the same content, so the
// algorithm is fixed here rather than delegated to a library that may
// change between versions.
const (
	fnvOffset uint32 = 2166136261
	fnvPrime  uint32 = 16777619
)

// Fingerprint is a composite content hash of one appearance. Two
// fingerprints compare equal exactly when every field matches; it is a
// pure function of the appearance content, so identical payloads always
// collapse to the same value.
type Fingerprint struct {
	Tiles        uint32
	Palette      uint32
	W, H         int
	HFlip, VFlip bool
	Bank         int // -1 when the sender omitted the bank
}

func fnv1a(h uint32, b byte) uint32 {
	return (h ^ uint32(b)) * fnvPrime
}

// fingerprintOf hashes the raw tile bytes and the 16 palette words (little
// endian) separately, then combines them with the geometry fields.
func fingerprintOf(tiles []byte, pal gfx.Palette, w, h int, hFlip, vFlip bool, bank int) Fingerprint {
	th := fnvOffset
	for _, b := range tiles {
		th = fnv1a(th, b)
	}
	ph := fnvOffset
	for _, c := range pal {
		ph = fnv1a(ph, byte(c))
		ph = fnv1a(ph, byte(c>>8))
	}
	return Fingerprint{
		Tiles:   th,
		Palette: ph,
		W:       w,
		H:       h,
		HFlip:   hFlip,
		VFlip:   vFlip,
		Bank:    bank,
	}
}
