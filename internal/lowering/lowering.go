// Package lowering defines the seam between the front end and a code
// generation backend. No implementation lives here: a real backend
// (MLIR/LLVM in the source repository) implements Target out-of-tree.
// Its presence here lets cmd/auc validate the typed tree's shape
// against a consumer without pulling one in.
package lowering

import "github.com/austral-lang/auc/internal/typedast"

// Target lowers a fully resolved, linearity-checked module to whatever
// representation a backend produces.
type Target interface {
	Lower(mod *typedast.Module) error
}

// CountFunctions reports how many function bodies mod would hand to a
// Target, the figure cmd/auc check prints in lieu of a real backend.
func CountFunctions(mod *typedast.Module) int {
	n := 0
	for _, item := range mod.Items {
		switch d := item.(type) {
		case *typedast.FunctionDecl:
			if d.Body != nil {
				n++
			}
		case *typedast.TypeclassDecl:
			for _, m := range d.Methods {
				if m.Body != nil {
					n++
				}
			}
		case *typedast.InstanceDecl:
			for _, m := range d.Methods {
				if m.Body != nil {
					n++
				}
			}
		}
	}
	return n
}
