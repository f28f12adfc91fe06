package resolver

import "github.com/austral-lang/auc/internal/types"

// prelude is the fixed set of built-in named scalar types every module
// sees without an import, standing in for the source's prelude module.
// String is represented as an opaque Free-universe named type; spec.md
// §4.R leaves its exact representation to "the built-in string/span type
// as declared by the prelude" without specifying shape, so this core
// treats it as an opaque handle rather than committing to a particular
// Span instantiation.
var prelude = map[string]types.Ty{
	"Unit":     types.Unit(),
	"Bool":     types.Boolean(),
	"Int8":     types.Integer(types.Signed, types.Width8),
	"Int16":    types.Integer(types.Signed, types.Width16),
	"Int32":    types.Integer(types.Signed, types.Width32),
	"Int64":    types.Integer(types.Signed, types.Width64),
	"Nat8":     types.Integer(types.Unsigned, types.Width8),
	"Nat16":    types.Integer(types.Unsigned, types.Width16),
	"Nat32":    types.Integer(types.Unsigned, types.Width32),
	"Nat64":    types.Integer(types.Unsigned, types.Width64),
	"Index":    types.Integer(types.Unsigned, types.WidthIndex),
	"ByteSize": types.Integer(types.Unsigned, types.WidthByteSize),
	"Float32":  types.SingleFloat(),
	"Float64":  types.DoubleFloat(),
	"ExitCode": types.Integer(types.Signed, types.Width32),
	"String":   types.Named("String", nil, types.Free),
}
