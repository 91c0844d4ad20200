package generate

import (
	"fmt"

	"github.com/llir/llvm/ir"
)

// Verify checks that every block of every function defined in mod ends with a
// terminator.  Function declarations are skipped.
func Verify(mod *ir.Module) error {
	for _, fn := range mod.Funcs {
		for _, block := range fn.Blocks {
			if block.Term == nil {
				return fmt.Errorf("block `%s` of function `%s` has no terminator", block.Name(), fn.Name())
			}
		}
	}

	return nil
}
