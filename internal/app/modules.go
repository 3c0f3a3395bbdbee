package app

import (
	"github.com/vk/evalforge/internal/engine"
	"github.com/vk/evalforge/modules/csvdata"
	"github.com/vk/evalforge/modules/output"
	"github.com/vk/evalforge/modules/traintest"
)

// coreModules is the definitive list of all modules that are compiled into
// the evalforge binary.
var coreModules = []engine.Module{
	&csvdata.Module{},
	&traintest.Module{},
	&output.Module{},
}
