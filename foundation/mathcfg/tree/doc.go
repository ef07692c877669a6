// Package tree defines the parse tree built by the mathcfg parser.
//
// Every node carries the grammar Symbol it realizes and its ordered
// children. The four non-terminals (Expr, MultiDivExpr, DivExpr, Term)
// mirror the grammar layers from lowest to highest precedence:
//
//	Expr         := MultiDivExpr ( ('+' | '-') Expr )?
//	MultiDivExpr := DivExpr ( '*' MultiDivExpr )?
//	DivExpr      := Term ( '/' DivExpr )?
//	Term         := Number | '(' Expr ')'
//
// A Number term is represented by the Number leaf itself; only
// parenthesized terms produce a Term node.
package tree
