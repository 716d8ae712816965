package app

import (
	"github.com/vk/artifactgraphgo/internal/registry"
	"github.com/vk/artifactgraphgo/modules/envseed"
	"github.com/vk/artifactgraphgo/modules/httpfetch"
	"github.com/vk/artifactgraphgo/modules/socketiopush"
	"github.com/vk/artifactgraphgo/modules/statictext"
	"github.com/vk/artifactgraphgo/modules/textjoin"
)

// coreModules is the definitive list of all handler modules compiled into
// the binary. Graphs refer to these by handler name.
var coreModules = []registry.Module{
	&envseed.Module{},
	&statictext.Module{},
	&httpfetch.Module{},
	&textjoin.Module{},
	&socketiopush.Module{},
}
