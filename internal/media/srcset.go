// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"fmt"
	"strings"

	"quillpress/internal/models"
)

// Responsive returns the srcset and sizes attribute values for m. ok is false
// when no resized renditions exist.
//
// With three or more tiers the larger candidates switch from width to pixel
// density descriptors, and with four the largest candidate is the lg
// rendition rather than the original.
func (b URLBuilder) Responsive(m *models.Media) (srcset, sizes string, ok bool) {
	tiers := m.Tiers()
	if tiers == 0 {
		return "", "", false
	}

	candidates := []string{
		fmt.Sprintf("%s %dw", b.URL(m, SizeSmall), SmallWidth),
	}
	switch tiers {
	case 1:
		candidates = append(candidates,
			fmt.Sprintf("%s %dw", b.URL(m, SizeOriginal), m.Width))
	case 2:
		candidates = append(candidates,
			fmt.Sprintf("%s %dw", b.URL(m, SizeMedium), MediumWidth),
			fmt.Sprintf("%s %dw", b.URL(m, SizeOriginal), m.Width))
	case 3:
		candidates = append(candidates,
			fmt.Sprintf("%s %dw", b.URL(m, SizeMedium), MediumWidth),
			b.URL(m, SizeMediumLarge)+" 2x",
			b.URL(m, SizeOriginal)+" 3x")
	default:
		candidates = append(candidates,
			fmt.Sprintf("%s %dw", b.URL(m, SizeMedium), MediumWidth),
			b.URL(m, SizeMediumLarge)+" 2x",
			b.URL(m, SizeLarge)+" 3x")
	}

	w := min(m.Width, MediumLargeWidth)
	return strings.Join(candidates, ", "), fmt.Sprintf("(max-width: %dpx) 100vw, %dpx", w, w), true
}
