package cssmodules

import (
	"fmt"

	"github.com/tdewolff/parse/v2/js"
)

// The walker visits children before their parent. Every expression visit
// returns the node that should take its place, so a replacement is a plain
// field assignment in the parent and replaced subtrees are never revisited.

func (in *Injector) stmts(list []js.IStmt) {
	for _, stmt := range list {
		in.stmt(stmt)
	}
}

func (in *Injector) block(b *js.BlockStmt) {
	if b != nil {
		in.stmts(b.List)
	}
}

func (in *Injector) stmt(s js.IStmt) {
	switch n := s.(type) {
	case *js.BlockStmt:
		in.stmts(n.List)
	case *js.ExprStmt:
		n.Value = in.expr(n.Value)
	case *js.VarDecl:
		in.varDecl(n)
	case *js.IfStmt:
		n.Cond = in.expr(n.Cond)
		in.stmt(n.Body)
		in.stmt(n.Else)
	case *js.DoWhileStmt:
		in.stmt(n.Body)
		n.Cond = in.expr(n.Cond)
	case *js.WhileStmt:
		n.Cond = in.expr(n.Cond)
		in.stmt(n.Body)
	case *js.ForStmt:
		n.Init = in.expr(n.Init)
		n.Cond = in.expr(n.Cond)
		n.Post = in.expr(n.Post)
		in.block(n.Body)
	case *js.ForInStmt:
		n.Init = in.expr(n.Init)
		n.Value = in.expr(n.Value)
		in.block(n.Body)
	case *js.ForOfStmt:
		n.Init = in.expr(n.Init)
		n.Value = in.expr(n.Value)
		in.block(n.Body)
	case *js.SwitchStmt:
		n.Init = in.expr(n.Init)
		for i := range n.List {
			clause := &n.List[i]
			clause.Cond = in.expr(clause.Cond)
			in.stmts(clause.List)
		}
	case *js.ReturnStmt:
		n.Value = in.expr(n.Value)
	case *js.ThrowStmt:
		n.Value = in.expr(n.Value)
	case *js.WithStmt:
		n.Cond = in.expr(n.Cond)
		in.stmt(n.Body)
	case *js.LabelledStmt:
		in.stmt(n.Value)
	case *js.TryStmt:
		in.block(n.Body)
		in.binding(n.Binding)
		in.block(n.Catch)
		in.block(n.Finally)
	case *js.FuncDecl:
		in.funcDecl(n)
	case *js.ClassDecl:
		in.classDecl(n)
	case *js.ExportStmt:
		n.Decl = in.expr(n.Decl)
	}
}

func (in *Injector) expr(e js.IExpr) js.IExpr {
	switch n := e.(type) {
	case *js.Var:
		if imp, ok := in.bindings[string(n.Name())]; ok && imp.Kind == KindNamed {
			return in.inject(imp.Exported, imp.Source, e)
		}
	case *js.DotExpr:
		n.X = in.expr(n.X)
		// Y is a property name, or a *Var for #private
		if prop, ok := n.Y.(js.LiteralExpr); ok {
			if imp, ok := in.member(n.X); ok {
				return in.inject(string(prop.Data), imp.Source, e)
			}
		}
	case *js.IndexExpr:
		binding, site := "", -1
		if v, ok := n.X.(*js.Var); ok {
			binding = string(v.Name())
			site = in.nextSite(DiagComputedAccess, binding)
		}
		n.X = in.expr(n.X)
		n.Y = in.expr(n.Y)
		if imp, ok := in.member(n.X); ok {
			if lit, ok := n.Y.(*js.LiteralExpr); ok && lit.TokenType == js.StringToken {
				return in.inject(unquote(lit.Data), imp.Source, e)
			}
			in.diagnose(DiagComputedAccess, binding, site, fmt.Sprintf(MsgComputedAccess, binding))
		}
	case *js.GroupExpr:
		n.X = in.expr(n.X)
	case *js.UnaryExpr:
		n.X = in.expr(n.X)
	case *js.BinaryExpr:
		n.X = in.expr(n.X)
		n.Y = in.expr(n.Y)
	case *js.CondExpr:
		n.Cond = in.expr(n.Cond)
		n.X = in.expr(n.X)
		n.Y = in.expr(n.Y)
	case *js.CommaExpr:
		for i := range n.List {
			n.List[i] = in.expr(n.List[i])
		}
	case *js.YieldExpr:
		n.X = in.expr(n.X)
	case *js.CallExpr:
		n.X = in.expr(n.X)
		in.args(&n.Args)
	case *js.NewExpr:
		n.X = in.expr(n.X)
		if n.Args != nil {
			in.args(n.Args)
		}
	case *js.TemplateExpr:
		n.Tag = in.expr(n.Tag)
		for i := range n.List {
			n.List[i].Expr = in.expr(n.List[i].Expr)
		}
	case *js.ArrayExpr:
		for i := range n.List {
			n.List[i].Value = in.expr(n.List[i].Value)
		}
	case *js.ObjectExpr:
		for i := range n.List {
			in.property(&n.List[i])
		}
	case *js.ArrowFunc:
		in.params(&n.Params)
		in.stmts(n.Body.List)
	case *js.FuncDecl:
		in.funcDecl(n)
	case *js.ClassDecl:
		in.classDecl(n)
	case *js.MethodDecl:
		in.method(n)
	case *js.VarDecl:
		in.varDecl(n)
	}
	return e
}

// member returns the default or namespace import x refers to.
func (in *Injector) member(x js.IExpr) (ResolvedImport, bool) {
	v, ok := x.(*js.Var)
	if !ok {
		return ResolvedImport{}, false
	}
	imp, ok := in.bindings[string(v.Name())]
	if !ok || imp.Kind == KindNamed {
		return ResolvedImport{}, false
	}
	return imp, true
}

// inject replaces orig with the scoped name of local as a string literal.
func (in *Injector) inject(local, source string, orig js.IExpr) js.IExpr {
	if in.err != nil {
		return orig
	}
	name, err := in.scopedName(local, source)
	if err != nil {
		in.err = err
		return orig
	}
	in.stats.NamesInjected++
	// sanitized names never contain quotes, backslashes or line breaks
	return &js.LiteralExpr{TokenType: js.StringToken, Data: []byte(`"` + name + `"`)}
}

func (in *Injector) args(args *js.Args) {
	for i := range args.List {
		args.List[i].Value = in.expr(args.List[i].Value)
	}
}

func (in *Injector) property(p *js.Property) {
	// a method's name is shared with the MethodDecl and visited there
	if _, ok := p.Value.(*js.MethodDecl); !ok && p.Name != nil {
		in.propertyName(p.Name)
	}
	p.Value = in.expr(p.Value)
	p.Init = in.expr(p.Init)
}

func (in *Injector) propertyName(pn *js.PropertyName) {
	if pn.Computed != nil {
		pn.Computed = in.expr(pn.Computed)
	}
}

func (in *Injector) funcDecl(n *js.FuncDecl) {
	in.params(&n.Params)
	in.stmts(n.Body.List)
}

func (in *Injector) method(n *js.MethodDecl) {
	in.propertyName(&n.Name.PropertyName)
	in.params(&n.Params)
	in.stmts(n.Body.List)
}

func (in *Injector) classDecl(n *js.ClassDecl) {
	n.Extends = in.expr(n.Extends)
	for i := range n.List {
		el := &n.List[i]
		switch {
		case el.StaticBlock != nil:
			in.block(el.StaticBlock)
		case el.Method != nil:
			in.method(el.Method)
		default:
			in.propertyName(&el.Name.PropertyName)
			el.Init = in.expr(el.Init)
		}
	}
}

func (in *Injector) params(p *js.Params) {
	for i := range p.List {
		in.bindingElement(&p.List[i])
	}
	in.binding(p.Rest)
}

func (in *Injector) varDecl(n *js.VarDecl) {
	for i := range n.List {
		in.bindingElement(&n.List[i])
	}
}

func (in *Injector) bindingElement(el *js.BindingElement) {
	in.binding(el.Binding)
	el.Default = in.expr(el.Default)
}

// binding visits default values and computed keys of a binding pattern.
// Bound names are declarations, not uses, and are left alone.
func (in *Injector) binding(b js.IBinding) {
	switch n := b.(type) {
	case *js.BindingArray:
		for i := range n.List {
			in.bindingElement(&n.List[i])
		}
		in.binding(n.Rest)
	case *js.BindingObject:
		for i := range n.List {
			item := &n.List[i]
			if item.Key != nil {
				in.propertyName(item.Key)
			}
			in.bindingElement(&item.Value)
		}
	}
}
