package tmx

// GID is a global tile identifier. Zero means "no tile".
//
// The top bits of a GID stored in a map carry flip and rotation flags; they are
// not part of the identifier and must be masked out before a tileset lookup.
type GID uint32

const (
	FlagFlipHorizontal GID = 0x80000000
	FlagFlipVertical   GID = 0x40000000
	FlagFlipDiagonal   GID = 0x20000000
	FlagRotateHex120   GID = 0x10000000

	flagMask = FlagFlipHorizontal | FlagFlipVertical | FlagFlipDiagonal | FlagRotateHex120
)

// ID returns the identifier with all flag bits cleared.
func (g GID) ID() GID {
	return g &^ flagMask
}

// Flags returns only the flag bits of g.
func (g GID) Flags() GID {
	return g & flagMask
}

// Empty reports whether g refers to no tile, ignoring flags.
func (g GID) Empty() bool {
	return g.ID() == 0
}
