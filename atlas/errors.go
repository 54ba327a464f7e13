package atlas

import (
	"errors"
	"fmt"
	"image"

	"github.com/milk9111/tmxrender/tmx"
)

var (
	ErrNoTileset         = errors.New("atlas: no tileset claims gid")
	ErrNoTile            = errors.New("atlas: no tile with local id")
	ErrIndexOutOfRange   = errors.New("atlas: local id past tile count")
	ErrGeometry          = errors.New("atlas: tile outside atlas capacity")
	ErrContractViolation = errors.New("atlas: contract violation")
)

// LookupError reports a GID without an owning tileset or a local index
// without a tile entry or past the tile count.
type LookupError struct {
	Tileset string
	GID     tmx.GID
	Index   uint32
	Err     error
}

func (e *LookupError) Error() string {
	if e.Tileset == "" {
		return fmt.Sprintf("%v: gid %d", e.Err, e.GID)
	}
	return fmt.Sprintf("%v: tileset %q, gid %d, local id %d", e.Err, e.Tileset, e.GID, e.Index)
}

func (e *LookupError) Unwrap() error { return e.Err }

// GeometryError reports a tile index that the atlas image cannot hold.
type GeometryError struct {
	Tileset    string
	Index      uint32
	Size       image.Point
	Cols, Rows int
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%v: tileset %q, index %d, atlas %dx%d holds %dx%d tiles",
		ErrGeometry, e.Tileset, e.Index, e.Size.X, e.Size.Y, e.Cols, e.Rows)
}

func (e *GeometryError) Unwrap() error { return ErrGeometry }

// ContractError reports data the renderer requires but the map left out.
type ContractError struct {
	Tileset string
	What    string
	Index   uint32
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%v: tileset %q: %s (local id %d)", ErrContractViolation, e.Tileset, e.What, e.Index)
}

func (e *ContractError) Unwrap() error { return ErrContractViolation }
