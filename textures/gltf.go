package textures

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"postfx/internal/logger"
)

// LoadGLTF returns the images referenced by the textures of a .gltf or .glb
// file, in texture order. Images that cannot be read are logged and skipped.
func LoadGLTF(path string) ([]*Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	var out []*Image
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		src := *gt.Source
		if src < 0 || src >= len(doc.Images) {
			logger.Log.Warn("gltf image skipped",
				zap.String("file", path), zap.Int("texture", i), zap.Int("source", src))
			continue
		}
		img := doc.Images[src]
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("gltf_img_%d", src)
		}

		var (
			tex  *Image
			rerr error
		)
		switch {
		case img.BufferView != nil:
			// Binary GLB: image data lives in a buffer view
			var raw []byte
			if bv := *img.BufferView; bv < 0 || bv >= len(doc.BufferViews) {
				rerr = fmt.Errorf("buffer view %d out of range", bv)
			} else {
				raw, rerr = modeler.ReadBufferView(doc, doc.BufferViews[bv])
			}
			if rerr == nil {
				tex, rerr = Decode(name, raw)
			}
		case img.IsEmbeddedResource():
			var raw []byte
			raw, rerr = img.MarshalData()
			if rerr == nil {
				tex, rerr = Decode(name, raw)
			}
		case img.URI != "":
			tex, rerr = Load(filepath.Join(dir, img.URI))
		default:
			continue
		}
		if rerr != nil {
			logger.Log.Warn("gltf image skipped",
				zap.String("file", path), zap.Int("texture", i), zap.Error(rerr))
			continue
		}
		out = append(out, tex)
	}
	return out, nil
}
