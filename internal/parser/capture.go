package parser

import "rossa/internal/ast"

// freeVariables walks body collecting every name hash it references,
// minus names params itself binds, for FuncLitNode.CaptureNames
// (spec.md §3.4: a lambda or def snapshots the values its body reads
// from the enclosing scope at definition time). The walk is
// intentionally a conservative superset: a name declared locally inside
// body (a `var`, a `for` loop variable, a nested lambda's own params)
// simply won't resolve against the defining scope at capture time, so
// including it here costs nothing (eval.FuncLit.Eval only keeps names
// that actually resolve).
func freeVariables(body ast.Node, params []ast.ParamNode) []int {
	bound := make(map[int]bool, len(params))
	for _, p := range params {
		bound[p.Name] = true
	}
	seen := map[int]bool{}
	var out []int
	add := func(name int) {
		if !bound[name] && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	walkNode(body, add)
	return out
}

func walkNode(n ast.Node, add func(int)) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *ast.Container:
	case *ast.Ident:
		add(v.Name)
	case *ast.This:
	case *ast.BinaryExpr:
		walkNode(v.Left, add)
		walkNode(v.Right, add)
	case *ast.UnaryExpr:
		walkNode(v.Operand, add)
	case *ast.TernaryExpr:
		walkNode(v.Cond, add)
		walkNode(v.Then, add)
		walkNode(v.Else, add)
	case *ast.IndexExpr:
		walkNode(v.Container, add)
		walkNode(v.Key, add)
	case *ast.InnerExpr:
		walkNode(v.Target, add)
		if v.HasFallback {
			add(v.FallbackName)
		}
	case *ast.LengthExpr:
		walkNode(v.Target, add)
	case *ast.CallExpr:
		walkNode(v.Callee, add)
		for _, a := range v.Args {
			walkNode(a, add)
		}
	case *ast.NewExpr:
		walkNode(v.Class, add)
		for _, a := range v.Args {
			walkNode(a, add)
		}
	case *ast.TypeOfExpr:
		walkNode(v.Target, add)
	case *ast.CastExpr:
		walkNode(v.Src, add)
	case *ast.DeleteExpr:
		walkNode(v.Target, add)
	case *ast.RangeExpr:
		walkNode(v.From, add)
		walkNode(v.To, add)
		walkNode(v.Step, add)
	case *ast.ArrayLitNode:
		for _, e := range v.Elems {
			walkNode(e, add)
		}
	case *ast.DictLitNode:
		for i := range v.Keys {
			walkNode(v.Keys[i], add)
			walkNode(v.Values[i], add)
		}
	case *ast.AllocExpr:
		walkNode(v.N, add)
	case *ast.CharNExpr:
		walkNode(v.Src, add)
	case *ast.CharSExpr:
		walkNode(v.Src, add)
	case *ast.ParseExpr:
		walkNode(v.Src, add)
	case *ast.CallOpIExpr:
		walkNode(v.ID, add)
		for _, a := range v.Args {
			walkNode(a, add)
		}
	case *ast.FuncLitNode:
		// A nested lambda/def already computed its own CaptureNames; those
		// are exactly the free variables it reaches into its enclosing
		// scope for, which (from this outer body's perspective) are free
		// variables too unless this body's own params shadow them.
		for _, c := range v.CaptureNames {
			add(c)
		}
	case *ast.SeqStmt:
		for _, s := range v.Stmts {
			walkNode(s, add)
		}
	case *ast.BlockStmt:
		walkNode(v.Body, add)
	case *ast.DeclStmt:
		for _, i := range v.Inits {
			walkNode(i, add)
		}
	case *ast.SetStmt:
		add(v.Name)
		walkNode(v.Rhs, add)
	case *ast.SetIndexStmt:
		walkNode(v.Container, add)
		walkNode(v.Key, add)
		walkNode(v.Rhs, add)
	case *ast.SetInnerStmt:
		walkNode(v.Target, add)
		walkNode(v.Rhs, add)
	case *ast.IfStmt:
		walkNode(v.Cond, add)
		walkNode(v.Then, add)
		walkNode(v.Else, add)
	case *ast.WhileStmt:
		walkNode(v.Cond, add)
		walkNode(v.Body, add)
	case *ast.ForInStmt:
		walkNode(v.Iterable, add)
		walkNode(v.Body, add)
	case *ast.UntilStmt:
		walkNode(v.From, add)
		walkNode(v.To, add)
		walkNode(v.Step, add)
		walkNode(v.Body, add)
	case *ast.BreakStmt:
		walkNode(v.Val, add)
	case *ast.ContinueStmt:
	case *ast.ReturnStmt:
		walkNode(v.Val, add)
	case *ast.ReferStmt:
		walkNode(v.Val, add)
	case *ast.ThrowStmt:
		walkNode(v.Val, add)
	case *ast.TryStmt:
		walkNode(v.Body, add)
		walkNode(v.CatchBody, add)
		walkNode(v.Finally, add)
	case *ast.SwitchStmt:
		walkNode(v.Subject, add)
		for _, c := range v.Cases {
			walkNode(c.Match, add)
			walkNode(c.Body, add)
		}
		walkNode(v.Default, add)
	case *ast.ExternDecl:
	case *ast.ClassDeclNode:
		for _, b := range v.Bases {
			walkNode(b, add)
		}
		walkNode(v.Body, add)
	case *ast.DefStmt:
		for _, c := range v.Lit.CaptureNames {
			add(c)
		}
	case *ast.Program:
		for _, s := range v.Stmts {
			walkNode(s, add)
		}
	}
}
