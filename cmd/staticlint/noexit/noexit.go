// Package noexit содержит анализатор, запрещающий прямой вызов os.Exit в функции main пакета main.
package noexit

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

// NoExitAnalyzer проверяет отсутствие прямых вызовов os.Exit в функции main пакета main
var NoExitAnalyzer = &analysis.Analyzer{
	Name: "noexit",
	Doc:  "запрещает прямой вызов os.Exit в функции main пакета main",
	Run:  run,
}

// run выполняет анализ AST для поиска вызовов os.Exit в функции main
func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		ast.Inspect(file, func(node ast.Node) bool {
			funcDecl, ok := node.(*ast.FuncDecl)
			if !ok || funcDecl.Name.Name != "main" || funcDecl.Body == nil {
				return true
			}

			// Проверяем тело функции main на наличие вызовов os.Exit
			ast.Inspect(funcDecl.Body, func(n ast.Node) bool {
				callExpr, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				selExpr, ok := callExpr.Fun.(*ast.SelectorExpr)
				if !ok || selExpr.Sel.Name != "Exit" {
					return true
				}

				// Убеждаемся, что селектор относится к пакету os
				ident, ok := selExpr.X.(*ast.Ident)
				if !ok {
					return true
				}
				if pkg, ok := pass.TypesInfo.Uses[ident].(*types.PkgName); ok && pkg.Imported().Path() == "os" {
					pass.Reportf(callExpr.Pos(), "прямой вызов os.Exit в функции main запрещён")
				}
				return true
			})
			return true
		})
	}

	return nil, nil
}
