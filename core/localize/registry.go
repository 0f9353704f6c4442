// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localize

import (
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/atom"
)

// Rule describes one family of translatable elements.
type Rule struct {
	// Name identifies the rule in the registry.
	Name string
	// Prefix is prepended to the language code to form the source
	// attribute, for example "data-" yields "data-ar".
	Prefix string
	// Write stores the translated value on an element.
	Write func(el *goquery.Selection, value string)
}

// selector matches elements carrying the attribute for every language.
func (r Rule) selector() string {
	var s string
	for _, lang := range Languages {
		s += "[" + r.Prefix + lang + "]"
	}

	return s
}

// Registry holds the rules applied when localizing. The zero value is empty.
type Registry struct {
	mu    sync.RWMutex
	rules []Rule
}

// Default is the registry used by Apply.
var Default = NewRegistry()

// NewRegistry returns a registry preloaded with the text and aria-label rules.
func NewRegistry() *Registry {
	r := &Registry{}
	r.MustRegister(Rule{Name: "text", Prefix: "data-", Write: writeTextOrPlaceholder})
	r.MustRegister(Rule{Name: "aria", Prefix: "data-aria-", Write: writeAttr("aria-label")})

	return r
}

// Register adds a rule. Names must be unique.
func (r *Registry) Register(rule Rule) error {
	if rule.Name == "" || rule.Prefix == "" || rule.Write == nil {
		return fmt.Errorf("%w: %q", errIncompleteRule, rule.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rules {
		if existing.Name == rule.Name {
			return fmt.Errorf("%w: %q", errDuplicateRule, rule.Name)
		}
	}

	r.rules = append(r.rules, rule)

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(rule Rule) {
	if err := r.Register(rule); err != nil {
		panic(err)
	}
}

// Rules returns the registered rule names in registration order.
func (r *Registry) Rules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}

	return names
}

// ApplySelection localizes elements in sel, including sel itself, for every
// registered rule. It returns the number of elements rewritten.
func (r *Registry) ApplySelection(sel *goquery.Selection, lang string) int {
	r.mu.RLock()
	rules := append([]Rule(nil), r.rules...)
	r.mu.RUnlock()

	count := 0

	for _, rule := range rules {
		matching(sel, rule.selector()).Each(func(_ int, el *goquery.Selection) {
			value, ok := el.Attr(rule.Prefix + lang)
			if !ok || value == "" {
				return
			}

			rule.Write(el, value)
			count++
		})
	}

	return count
}

func writeTextOrPlaceholder(el *goquery.Selection, value string) {
	if isFormControl(el) {
		el.SetAttr("placeholder", value)

		return
	}

	el.SetText(value)
}

// isFormControl reports whether el shows its text as a placeholder.
func isFormControl(el *goquery.Selection) bool {
	if len(el.Nodes) == 0 {
		return false
	}

	switch el.Nodes[0].DataAtom {
	case atom.Input, atom.Textarea:
		return true
	}

	return false
}

func writeAttr(name string) func(*goquery.Selection, string) {
	return func(el *goquery.Selection, value string) {
		el.SetAttr(name, value)
	}
}
