package version

// Version wird beim Build per -ldflags "-X" gesetzt
var Version string = "0.0.0"
