package tagging

import (
	"context"
	"fmt"
	"strings"

	"scanshelf/internal/catalog"
	"scanshelf/internal/services"
)

// Value is one tag value in the session projection. Pending values have a
// negative ID until committed.
type Value struct {
	ID    int64
	TagID int64
	Tag   string
	Type  catalog.TagType
	Value string
}

// Pending reports whether the value was added in this session.
func (v Value) Pending() bool {
	return v.ID < 0
}

// Session edits the tag values of one picture.
type Session struct {
	store   *catalog.Store
	picture catalog.Picture
	tags    map[string]catalog.Tag

	original []Value
	values   []Value
	nextTemp int64
}

// Load opens a session for the picture named by ref, a filename or a hash prefix.
func Load(ctx context.Context, store *catalog.Store, ref string) (*Session, error) {
	pic, err := store.FindPicture(ctx, ref)
	if err != nil {
		return nil, err
	}
	tags, err := store.Tags(ctx)
	if err != nil {
		return nil, err
	}
	s := &Session{store: store, picture: *pic, tags: make(map[string]catalog.Tag, len(tags))}
	for _, tag := range tags {
		s.tags[strings.ToLower(tag.Name)] = tag
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) reload(ctx context.Context) error {
	stored, err := s.store.PictureTags(ctx, s.picture.ID)
	if err != nil {
		return err
	}
	s.original = s.original[:0]
	for _, tv := range stored {
		s.original = append(s.original, Value{ID: tv.ID, TagID: tv.TagID, Tag: tv.Tag, Type: tv.Type, Value: tv.Value})
	}
	s.Discard()
	return nil
}

// Picture returns the picture being edited.
func (s *Session) Picture() catalog.Picture {
	return s.picture
}

// Values returns the current projection in creation order.
func (s *Session) Values() []Value {
	return append([]Value(nil), s.values...)
}

// Tags returns the tag definitions known to the session.
func (s *Session) Tags() []catalog.Tag {
	out := make([]catalog.Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		out = append(out, tag)
	}
	return out
}

// Add appends a value for the named tag to the projection.
func (s *Session) Add(tagName, value string) (Value, error) {
	tag, ok := s.tags[strings.ToLower(strings.TrimSpace(tagName))]
	if !ok {
		return Value{}, services.Wrap(services.ErrNotFound, "tagging", "add", fmt.Sprintf("unknown tag %q", tagName), nil)
	}
	if tag.IsDerived() {
		return Value{}, services.Wrap(services.ErrValidation, "tagging", "add",
			fmt.Sprintf("tag %q is derived from the directory layout and rewritten by reindex", tag.Name), nil)
	}
	normalized, err := NormalizeValue(tag.Type, value)
	if err != nil {
		return Value{}, err
	}
	s.nextTemp--
	v := Value{ID: s.nextTemp, TagID: tag.ID, Tag: tag.Name, Type: tag.Type, Value: normalized}
	s.values = append(s.values, v)
	return v, nil
}

// Set replaces the value stored under id.
func (s *Session) Set(id int64, value string) (Value, error) {
	i, err := s.find(id, "set")
	if err != nil {
		return Value{}, err
	}
	normalized, err := NormalizeValue(s.values[i].Type, value)
	if err != nil {
		return Value{}, err
	}
	s.values[i].Value = normalized
	return s.values[i], nil
}

// Remove drops the value stored under id.
func (s *Session) Remove(id int64) error {
	i, err := s.find(id, "remove")
	if err != nil {
		return err
	}
	s.values = append(s.values[:i], s.values[i+1:]...)
	return nil
}

func (s *Session) find(id int64, op string) (int, error) {
	for i, v := range s.values {
		if v.ID == id {
			if catalog.IsDerivedName(v.Tag) {
				return 0, services.Wrap(services.ErrValidation, "tagging", op,
					fmt.Sprintf("tag %q is derived from the directory layout and rewritten by reindex", v.Tag), nil)
			}
			return i, nil
		}
	}
	return 0, services.Wrap(services.ErrNotFound, "tagging", op, fmt.Sprintf("value %d is not attached to %s", id, s.picture.Filename), nil)
}

// Dirty reports whether the projection differs from the catalog.
func (s *Session) Dirty() bool {
	adds, updates, deletes := s.diff()
	return len(adds)+len(updates)+len(deletes) > 0
}

// Discard resets the projection to the last committed state.
func (s *Session) Discard() {
	s.values = append(s.values[:0:0], s.original...)
}

// Commit writes pending changes in one transaction and reloads the projection.
func (s *Session) Commit(ctx context.Context) error {
	adds, updates, deletes := s.diff()
	if len(adds)+len(updates)+len(deletes) == 0 {
		return nil
	}

	lock, err := catalog.AcquireLock(s.store.Path(), true)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	err = s.store.Update(ctx, func(tx *catalog.Tx) error {
		for _, id := range deletes {
			if err := tx.DeleteTagValue(ctx, id); err != nil {
				return err
			}
		}
		for _, v := range updates {
			if err := tx.UpdateTagValue(ctx, v.ID, v.Value); err != nil {
				return err
			}
		}
		for _, v := range adds {
			if _, err := tx.AddTagValue(ctx, s.picture.ID, v.TagID, v.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.reload(ctx)
}

func (s *Session) diff() (adds, updates []Value, deletes []int64) {
	current := make(map[int64]Value, len(s.values))
	for _, v := range s.values {
		if v.Pending() {
			adds = append(adds, v)
			continue
		}
		current[v.ID] = v
	}
	for _, orig := range s.original {
		v, ok := current[orig.ID]
		switch {
		case !ok:
			deletes = append(deletes, orig.ID)
		case v.Value != orig.Value:
			updates = append(updates, v)
		}
	}
	return adds, updates, deletes
}

// NormalizeValue validates value for a tag of the given type. Boolean values
// accept yes/no, true/false, on/off and 1/0 and are stored as "true" or "false".
func NormalizeValue(kind catalog.TagType, value string) (string, error) {
	if kind != catalog.TagBool {
		return value, nil
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "on":
		return "true", nil
	case "0", "false", "no", "n", "off":
		return "false", nil
	}
	return "", services.Wrap(services.ErrValidation, "tagging", "normalize", fmt.Sprintf("%q is not a boolean value", value), nil)
}
