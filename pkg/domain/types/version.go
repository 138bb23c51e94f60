package types

// Version is the build version of semrel. Overwritten by -ldflags at release time.
var Version = "dev"
