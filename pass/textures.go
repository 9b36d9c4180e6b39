package pass

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"postfx/gfx"
)

// TextureMap maps sampler uniform names to textures, remembering insertion
// order. Texture units are assigned from that order, so the first name set
// is bound to unit 0. The map never owns its textures.
//
// The zero value is an empty map ready to use.
type TextureMap struct {
	m *orderedmap.OrderedMap[string, gfx.Texture]
}

// NewTextureMap returns an empty map.
func NewTextureMap() *TextureMap {
	return &TextureMap{m: orderedmap.New[string, gfx.Texture]()}
}

// Set binds name to tex. Re-setting an existing name replaces the texture
// and keeps the name's position.
func (t *TextureMap) Set(name string, tex gfx.Texture) {
	if t.m == nil {
		t.m = orderedmap.New[string, gfx.Texture]()
	}
	t.m.Set(name, tex)
}

// Get returns the texture bound to name.
func (t *TextureMap) Get(name string) (gfx.Texture, bool) {
	if t.m == nil {
		return nil, false
	}
	return t.m.Get(name)
}

// Delete removes name and reports whether it was present. Later names move
// down one texture unit.
func (t *TextureMap) Delete(name string) bool {
	if t.m == nil {
		return false
	}
	_, ok := t.m.Delete(name)
	return ok
}

// Len returns the number of entries.
func (t *TextureMap) Len() int {
	if t.m == nil {
		return 0
	}
	return t.m.Len()
}

// Names returns the sampler names in insertion order.
func (t *TextureMap) Names() []string {
	names := make([]string, 0, t.Len())
	t.Each(func(_ int, name string, _ gfx.Texture) {
		names = append(names, name)
	})
	return names
}

// Each calls fn for every entry in insertion order with its texture unit.
func (t *TextureMap) Each(fn func(unit int, name string, tex gfx.Texture)) {
	if t.m == nil {
		return
	}
	unit := 0
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(unit, pair.Key, pair.Value)
		unit++
	}
}
