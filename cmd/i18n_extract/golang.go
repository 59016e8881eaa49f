// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// goExtractor finds messages in the type-checked syntax of one package.
type goExtractor struct {
	refs     refSet
	root     string
	fset     *token.FileSet
	info     *types.Info
	i18nPkgs map[string]struct{}
}

// extractGo collects the messages of every package in pkgs.
func extractGo(pkgs []*packages.Package, root string, i18nPkgs map[string]struct{}) refSet {
	refs := refSet{}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		e := &goExtractor{refs: refs, root: root, fset: p.Fset, info: p.TypesInfo, i18nPkgs: i18nPkgs}

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.CallExpr:
					e.call(x)
				case *ast.CompositeLit:
					e.compositeLit(x)
				}

				return true
			})
		}
	}

	return refs
}

// findI18nPkgPaths returns the paths of the packages named i18n that define a
// string-based MsgKey, however they are imported.
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

// isMsgKey reports whether t is the MsgKey type of an i18n package.
func (e *goExtractor) isMsgKey(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil || obj.Name() != "MsgKey" {
		return false
	}

	_, ok = e.i18nPkgs[obj.Pkg().Path()]

	return ok
}

// constString evaluates expr to a constant string, folding constant expressions.
func (e *goExtractor) constString(expr ast.Expr) (string, bool) {
	tv, ok := e.info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// addConst records expr as a plain msgid when it is a constant string.
func (e *goExtractor) addConst(expr ast.Expr) {
	if msg, ok := e.constString(expr); ok {
		e.add(expr.Pos(), key{id: msg})
	}
}

func (e *goExtractor) add(pos token.Pos, k key) {
	p := e.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(e.root, file); err == nil {
		file = rel
	}

	e.refs.add(k, ref{file: filepath.ToSlash(file), line: p.Line})
}

// compositeLit finds constants converted to MsgKey by map, slice, array and
// struct literals.
func (e *goExtractor) compositeLit(x *ast.CompositeLit) {
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
		keyIsMsg, valIsMsg := e.isMsgKey(u.Key()), e.isMsgKey(u.Elem())

		for _, elt := range x.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}

			if keyIsMsg {
				e.addConst(kv.Key)
			}

			if valIsMsg {
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

				for j := range u.NumFields() {
					if f := u.Field(j); f.Name() == id.Name && e.isMsgKey(f.Type()) {
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

// call handles MsgKey conversions, the Tr family and any other call with
// MsgKey parameters.
func (e *goExtractor) call(x *ast.CallExpr) {
	if tv, ok := e.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 && e.isMsgKey(tv.Type) {
			e.addConst(x.Args[0])
		}

		return
	}

	if sel, ok := x.Fun.(*ast.SelectorExpr); ok {
		if fn, ok := e.info.Uses[sel.Sel].(*types.Func); ok && fn.Pkg() != nil && fn.Signature().Recv() == nil {
			if _, ok := e.i18nPkgs[fn.Pkg().Path()]; ok && e.trCall(fn.Name(), x.Args) {
				return
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
			if x.Ellipsis != token.NoPos {
				continue
			}

			pt = params.At(last).Type().(*types.Slice).Elem()
		case i < params.Len():
			pt = params.At(i).Type()
		default:
			return
		}

		if e.isMsgKey(pt) {
			e.addConst(arg)
		}
	}
}

// trCall records the message of an i18n.Tr, TrC or TrN call. It reports
// false for other functions of the package.
func (e *goExtractor) trCall(name string, args []ast.Expr) bool {
	switch name {
	case "Tr": // Tr(ctx, "msg", ...)
		if len(args) >= 2 {
			e.addConst(args[1])
		}
	case "TrC": // TrC(ctx, "context", "msg", ...)
		if len(args) >= 3 {
			ctx, ok1 := e.constString(args[1])
			msg, ok2 := e.constString(args[2])

			if ok1 && ok2 {
				e.add(args[2].Pos(), key{ctx: ctx, id: msg})
			}
		}
	case "TrN": // TrN(ctx, "singular", "plural", n, ...)
		if len(args) >= 4 {
			singular, ok1 := e.constString(args[1])
			plural, ok2 := e.constString(args[2])

			if ok1 && ok2 {
				e.add(args[1].Pos(), key{id: singular, plural: plural})
			}
		}
	default:
		return false
	}

	return true
}
