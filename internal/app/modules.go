package app

import (
	"github.com/specialistvlad/filtergrid/internal/registry"
	"github.com/specialistvlad/filtergrid/modules/inputs"
	"github.com/specialistvlad/filtergrid/modules/maths"
)

// coreModules is the definitive list of all evaluator modules compiled into
// the filtergrid binary.
var coreModules = []registry.Module{
	&maths.Module{},
	&inputs.Module{},
}
