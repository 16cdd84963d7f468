package version

// Version is the semantic version of the build, overridable at link time.
var Version = "0.1.0-dev"
