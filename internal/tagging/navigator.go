package tagging

import (
	"context"

	"scanshelf/internal/catalog"
)

// Navigator walks valid pictures in filename order.
type Navigator struct {
	pictures []catalog.Picture
}

// NewNavigator lists the valid pictures of book, or of every book when book is empty.
func NewNavigator(ctx context.Context, store *catalog.Store, book string) (*Navigator, error) {
	pics, err := store.Pictures(ctx, catalog.PictureFilter{Book: book})
	if err != nil {
		return nil, err
	}
	return &Navigator{pictures: pics}, nil
}

// Len returns the number of pictures.
func (n *Navigator) Len() int {
	return len(n.pictures)
}

// First returns the first picture.
func (n *Navigator) First() (catalog.Picture, bool) {
	if len(n.pictures) == 0 {
		return catalog.Picture{}, false
	}
	return n.pictures[0], true
}

// Next returns the picture after the one with id.
func (n *Navigator) Next(id int64) (catalog.Picture, bool) {
	return n.step(id, 1)
}

// Prev returns the picture before the one with id.
func (n *Navigator) Prev(id int64) (catalog.Picture, bool) {
	return n.step(id, -1)
}

func (n *Navigator) step(id int64, delta int) (catalog.Picture, bool) {
	for i, pic := range n.pictures {
		if pic.ID != id {
			continue
		}
		j := i + delta
		if j < 0 || j >= len(n.pictures) {
			return catalog.Picture{}, false
		}
		return n.pictures[j], true
	}
	return catalog.Picture{}, false
}
