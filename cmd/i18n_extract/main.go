// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
i18n_extract scans the module for translatable strings and writes a gettext
template. A string is translatable when it is passed to i18n.Tr or converted,
implicitly or not, to i18n.MsgKey.
*/
package main

import (
	"cmp"
	"flag"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/tools/go/packages"
)

// key models a gettext entry.
type key struct {
	id string
}

type ref struct {
	file string
	line int
}

// trFuncs maps i18n translation functions to the index of their msgid.
var trFuncs = map[string]int{
	"Tr": 1,
}

// extractor collects references for one package at a time.
type extractor struct {
	refs     map[key][]ref
	root     string
	fset     *token.FileSet
	info     *types.Info
	i18nPkgs map[string]struct{}
}

func main() {
	outPath := flag.String("o", "i18n/po/folio.pot", "output file")
	version := flag.String("version", "dev", "Project-Id-Version written to the header")
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	// templ-generated files must exist on disk before this runs.
	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax}, "./...")
	if err != nil {
		log.Fatalf("failed to load packages: %v", err)
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal("failed to load packages due to errors")
	}

	refs := map[key][]ref{}
	i18nPkgs := findI18nPkgPaths(pkgs)
	root := moduleRoot(wd)

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		e := &extractor{refs: refs, root: root, fset: p.Fset, info: p.TypesInfo, i18nPkgs: i18nPkgs}

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.CallExpr:
					e.handleCallExpr(x)
				case *ast.CompositeLit:
					e.handleCompositeLit(x)
				case *ast.ValueSpec:
					e.handleValueSpec(x)
				}

				return true
			})
		}
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := os.WriteFile(*outPath, []byte(renderPOT(refs, *version)), 0o644); err != nil {
		log.Fatalf("failed to write output file %s: %v", *outPath, err)
	}

	log.Printf("wrote %d entries to %s", len(refs), *outPath)
}

// renderPOT formats refs as a gettext template sorted by msgid.
func renderPOT(refs map[key][]ref, version string) string {
	keys := make([]key, 0, len(refs))
	for k := range refs {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b key) int {
		return cmp.Compare(a.id, b.id)
	})

	var b strings.Builder

	fmt.Fprintln(&b, `msgid ""`)
	fmt.Fprintln(&b, `msgstr ""`)
	fmt.Fprintf(&b, "\"Project-Id-Version: Folio %s\\n\"\n", version)
	fmt.Fprintf(&b, "\"POT-Creation-Date: %s\\n\"\n", time.Now().UTC().Format("2006-01-02 15:04+0000"))
	fmt.Fprintln(&b, `"Language: en\n"`)
	fmt.Fprintln(&b, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(&b, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(&b, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(&b, `"Plural-Forms: nplurals=2; plural=(n != 1);\n"`)

	for _, k := range keys {
		rs := refs[k]
		slices.SortFunc(rs, func(a, b ref) int {
			return cmp.Or(cmp.Compare(a.file, b.file), cmp.Compare(a.line, b.line))
		})
		rs = slices.Compact(rs)

		fmt.Fprint(&b, "\n#:")

		for _, r := range rs {
			fmt.Fprintf(&b, " %s:%d", r.file, r.line)
		}

		fmt.Fprintln(&b)

		fmt.Fprintf(&b, "msgid %q\n", k.id)
		fmt.Fprintln(&b, `msgstr ""`)
	}

	return b.String()
}

// findI18nPkgPaths returns the paths of packages named i18n that define a
// string-based MsgKey type.
func findI18nPkgPaths(pkgs []*packages.Package) map[string]struct{} {
	out := make(map[string]struct{})

	for _, p := range pkgs {
		if p.Name != "i18n" || p.Types == nil {
			continue
		}

		tn, ok := p.Types.Scope().Lookup("MsgKey").(*types.TypeName)
		if !ok {
			continue
		}

		if basic, ok := tn.Type().Underlying().(*types.Basic); ok && basic.Kind() == types.String {
			out[p.PkgPath] = struct{}{}
		}
	}

	return out
}

// constString evaluates expr to a constant string if possible.
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

func (e *extractor) isMsgKey(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return false
	}

	_, ok = e.i18nPkgs[named.Obj().Pkg().Path()]

	return ok && named.Obj().Name() == "MsgKey"
}

// addConst records expr when it is a constant string.
func (e *extractor) addConst(expr ast.Expr) {
	if msg, ok := constString(e.info, expr); ok {
		e.addRef(expr.Pos(), key{id: msg})
	}
}

// handleCompositeLit finds MsgKey values in map, slice, array and struct literals.
func (e *extractor) handleCompositeLit(x *ast.CompositeLit) {
	tv, ok := e.info.Types[x]
	if !ok || tv.Type == nil {
		return
	}

	t := tv.Type
	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}

	switch u := t.Underlying().(type) {
	case *types.Map:
		keyIsMK, valIsMK := e.isMsgKey(u.Key()), e.isMsgKey(u.Elem())

		for _, elt := range x.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}

			if keyIsMK {
				e.addConst(kv.Key)
			}

			if valIsMK {
				e.addConst(kv.Value)
			}
		}

	case *types.Slice:
		if e.isMsgKey(u.Elem()) {
			for _, elt := range x.Elts {
				e.addConst(elt)
			}
		}

	case *types.Array:
		if e.isMsgKey(u.Elem()) {
			for _, elt := range x.Elts {
				e.addConst(elt)
			}
		}

	case *types.Struct:
		for i, elt := range x.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				id, ok := kv.Key.(*ast.Ident)
				if !ok {
					continue
				}

				for f := range u.Fields() {
					if f.Name() == id.Name && e.isMsgKey(f.Type()) {
						e.addConst(kv.Value)
					}
				}

				continue
			}

			if i < u.NumFields() && e.isMsgKey(u.Field(i).Type()) {
				e.addConst(elt)
			}
		}
	}
}

// handleCallExpr finds MsgKey conversions, Tr calls and MsgKey
// arguments of any other function.
func (e *extractor) handleCallExpr(x *ast.CallExpr) {
	if tv, ok := e.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 && e.isMsgKey(tv.Type) {
			e.addConst(x.Args[0])
		}

		return
	}

	if sel, ok := x.Fun.(*ast.SelectorExpr); ok {
		if fn, ok := e.info.Uses[sel.Sel].(*types.Func); ok && fn.Pkg() != nil {
			if _, ok := e.i18nPkgs[fn.Pkg().Path()]; ok {
				if idx, ok := trFuncs[fn.Name()]; ok {
					if idx < len(x.Args) {
						e.addConst(x.Args[idx])
					}

					return
				}
			}
		}
	}

	sig, ok := e.info.TypeOf(x.Fun).(*types.Signature)
	if !ok || sig.Params().Len() == 0 {
		return
	}

	params := sig.Params()
	last := params.Len() - 1

	for i, arg := range x.Args {
		var pt types.Type

		switch {
		case sig.Variadic() && i >= last:
			// with ...slice the composite literal handler sees the elements
			if x.Ellipsis != token.NoPos {
				continue
			}

			pt = params.At(last).Type().(*types.Slice).Elem()
		case i > last:
			return
		default:
			pt = params.At(i).Type()
		}

		if e.isMsgKey(pt) {
			e.addConst(arg)
		}
	}
}

// handleValueSpec finds constants and variables declared as MsgKey.
func (e *extractor) handleValueSpec(x *ast.ValueSpec) {
	for i, name := range x.Names {
		obj := e.info.Defs[name]
		if obj == nil || !e.isMsgKey(obj.Type()) || i >= len(x.Values) {
			continue
		}

		e.addConst(x.Values[i])
	}
}

// addRef records a reference to k with a path relative to the module root.
func (e *extractor) addRef(pos token.Pos, k key) {
	p := e.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(e.root, file); err == nil {
		file = rel
	}

	e.refs[k] = append(e.refs[k], ref{file: filepath.ToSlash(file), line: p.Line})
}

// moduleRoot returns the nearest parent of dir holding a go.mod, or dir itself.
func moduleRoot(dir string) string {
	for d := filepath.Clean(dir); ; {
		if fi, err := os.Stat(filepath.Join(d, "go.mod")); err == nil && !fi.IsDir() {
			return d
		}

		parent := filepath.Dir(d)
		if parent == d {
			return dir
		}

		d = parent
	}
}
