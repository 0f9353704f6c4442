// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package page

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"codeberg.org/folio/folio/core/localize"
	"codeberg.org/folio/folio/core/reactor"
)

// Selectors of tracked elements.
const (
	skillsSelector   = "#skills"
	skillBarSelector = ".skill-progress[data-width]"
	statSelector     = ".stat-number"
	cardSelector     = ".project-card, .testimonial-card, .blog-card, .interest-category"
	lazySelector     = "img[data-src]"
	floatingSelector = ".floating-element"
)

// trackAttr tells the page script which elements to observe.
const trackAttr = "data-track"

// Annotate assigns ids to the tracked elements of doc that lack one, marks
// them with their kind and returns them as a catalog. It is deterministic:
// annotating equal documents yields equal ids.
func Annotate(doc *goquery.Document) reactor.StaticCatalog {
	catalog := make(reactor.StaticCatalog)
	counters := make(map[reactor.Kind]int)

	track := func(sel *goquery.Selection, kind reactor.Kind) string {
		id := ensureID(sel, string(kind), counters[kind])
		counters[kind]++

		sel.SetAttr(trackAttr, string(kind))
		sel.SetAttr("data-threshold", strconv.FormatFloat(reactor.Threshold(kind), 'f', -1, 64))

		return id
	}

	doc.Find(skillsSelector).First().Each(func(_ int, section *goquery.Selection) {
		id := track(section, reactor.KindSkills)

		var bars []reactor.SkillBar

		section.Find(skillBarSelector).Each(func(i int, bar *goquery.Selection) {
			bars = append(bars, reactor.SkillBar{
				ID:    ensureID(bar, "skill-bar", i),
				Width: bar.AttrOr("data-width", ""),
			})
		})

		catalog[id] = reactor.Element{ID: id, Kind: reactor.KindSkills, Bars: bars}
	})

	doc.Find(statSelector).Each(func(_ int, stat *goquery.Selection) {
		id := track(stat, reactor.KindStat)

		texts := map[string]string{"": strings.TrimSpace(stat.Text())}
		for _, lang := range localize.Languages {
			if v, ok := stat.Attr("data-" + lang); ok {
				texts[lang] = v
			}
		}

		catalog[id] = reactor.Element{ID: id, Kind: reactor.KindStat, Texts: texts}
	})

	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		id := track(card, reactor.KindCard)
		catalog[id] = reactor.Element{ID: id, Kind: reactor.KindCard}
	})

	doc.Find(lazySelector).Each(func(_ int, img *goquery.Selection) {
		id := track(img, reactor.KindImage)
		catalog[id] = reactor.Element{ID: id, Kind: reactor.KindImage, Src: img.AttrOr("data-src", "")}
	})

	doc.Find(floatingSelector).Each(func(i int, el *goquery.Selection) {
		f := reactor.FloatingAt(i)
		el.SetAttr("data-speed", strconv.FormatFloat(f.Speed, 'f', -1, 64))
		el.SetAttr("data-amplitude", strconv.FormatFloat(f.Amplitude, 'f', -1, 64))
	})

	return catalog
}

func ensureID(sel *goquery.Selection, prefix string, n int) string {
	if id, ok := sel.Attr("id"); ok && id != "" {
		return id
	}

	id := prefix + "-" + strconv.Itoa(n+1)
	sel.SetAttr("id", id)

	return id
}
