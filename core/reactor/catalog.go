// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package reactor

// Element is a tracked element as found in the page.
type Element struct {
	ID   string
	Kind Kind
	// Texts holds the element text per language code. The "" key holds the
	// text as rendered in the source document.
	Texts map[string]string
	// Src is the deferred image source of lazy images.
	Src string
	// Bars lists the skill bars of a skills section.
	Bars []SkillBar
}

// TextFor returns the element text for lang, falling back to the source text.
func (e Element) TextFor(lang string) string {
	if v, ok := e.Texts[lang]; ok && v != "" {
		return v
	}

	return e.Texts[""]
}

// Catalog looks up tracked elements by id.
type Catalog interface {
	Lookup(id string) (Element, bool)
}

// StaticCatalog is a Catalog over a fixed set of elements.
type StaticCatalog map[string]Element

func (c StaticCatalog) Lookup(id string) (Element, bool) {
	e, ok := c[id]

	return e, ok
}
