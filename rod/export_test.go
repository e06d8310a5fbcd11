package rod

// NewLauncher exposes newLauncher for tests.
var NewLauncher = newLauncher
