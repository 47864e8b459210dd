package app

import (
	"github.com/specialistvlad/nodemachine/internal/registry"
	"github.com/specialistvlad/nodemachine/modules/numberinput"
	"github.com/specialistvlad/nodemachine/modules/preview"
	"github.com/specialistvlad/nodemachine/modules/sum"
)

// coreModules is the definitive list of all node type modules that are
// compiled into the nodemachine binary.
var coreModules = []registry.Module{
	&numberinput.Module{},
	&sum.Module{},
	&preview.Module{},
}
