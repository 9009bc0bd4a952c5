// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/image/bmp"
)

// Image size limits in points.
const (
	DefaultImageWidth  = 6 * Inch
	MaxImageWidth      = 5 * Inch
	MaxImageHeight     = 6 * Inch
	FallbackImageWidth = 4 * Inch
)

// ImageSize fits a pixel size into the report: the requested width is
// capped at MaxImageWidth, the height follows the aspect ratio and is capped
// at MaxImageHeight, shrinking the width to match.
func ImageSize(pxWidth, pxHeight int, requested float64) (width, height float64) {
	ratio := float64(pxHeight) / float64(pxWidth)
	width = min(requested, MaxImageWidth)
	height = width * ratio
	if height > MaxImageHeight {
		height = MaxImageHeight
		width = height / ratio
	}
	return width, height
}

// 🖼️ AddImage appends a centered image with an optional caption and reports
// whether it was added. A missing or unreadable file returns false and
// leaves the sequence untouched.
func (d *Document) AddImage(path, caption string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		d.logger.Warn().Str("path", path).Msg("image not found")
		return false
	}

	src := path
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		converted, err := d.convertBMP(path)
		if err != nil {
			d.logger.Error().Err(err).Str("path", path).Msg("failed to convert image")
			return false
		}
		src = converted
	}

	// the renderer embeds only formats the registered decoders can read
	cfg, err := decodeConfig(src)
	if err != nil {
		d.logger.Warn().Err(err).Str("path", path).Msg("image cannot be decoded")
		return false
	}
	img := &Image{Path: src, Width: FallbackImageWidth}
	if cfg.Width > 0 && cfg.Height > 0 {
		img.Width, img.Height = ImageSize(cfg.Width, cfg.Height, DefaultImageWidth)
	}

	els := []Element{{Kind: KindImage, Image: img}}
	if caption != "" {
		els = append(els, Element{Kind: KindParagraph, Text: caption, Style: StyleCaption})
	}
	els = append(els, Element{Kind: KindSpacer, Height: 0.2 * Inch})
	return d.append(els...)
}

func decodeConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, errors.Errorf("opening image: %w", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, errors.Errorf("decoding image config: %w", err)
	}
	return cfg, nil
}

// convertBMP re-encodes a bitmap as PNG inside the assets directory.
func (d *Document) convertBMP(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening bitmap: %w", err)
	}
	defer f.Close()

	img, err := bmp.Decode(f)
	if err != nil {
		return "", errors.Errorf("decoding bitmap: %w", err)
	}

	if err := os.MkdirAll(d.assetsDir, 0755); err != nil {
		return "", errors.Errorf("creating assets dir: %w", err)
	}
	name := fmt.Sprintf("image_%03d_%s.png", len(d.assets)+1, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	out := filepath.Join(d.assetsDir, name)

	w, err := os.Create(out)
	if err != nil {
		return "", errors.Errorf("creating converted image: %w", err)
	}
	if err := png.Encode(w, img); err != nil {
		w.Close()
		os.Remove(out)
		return "", errors.Errorf("encoding png: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", errors.Errorf("closing converted image: %w", err)
	}
	d.assets = append(d.assets, out)
	return out, nil
}
