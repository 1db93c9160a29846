package build

// Tag is overridden at link time: -ldflags "-X twdl/pkg/build.Tag=v0.3.0"
var Tag = "dev"
