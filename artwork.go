package coverart

import (
	"github.com/simonhull/coverart/internal/types"
)

// Picture is an alias to types.Picture.
type Picture = types.Picture

// PictureType is an alias to types.PictureType.
type PictureType = types.PictureType

// Re-export the picture types callers are likely to need.
const (
	PictureOther      = types.PictureOther
	PictureFrontCover = types.PictureFrontCover
	PictureBackCover  = types.PictureBackCover
	PictureArtist     = types.PictureArtist
)
