package dispatch

// Hooks for white-box tests.
var PatternParams = patternParams
