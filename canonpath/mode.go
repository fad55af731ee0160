package canonpath

// probeMode is overridden by canon_linux.go/canon_darwin.go. ProbeMode never returns an
// error — a failed stat simply yields mode 0, matching spec.md §4.2
// ("never raises; purely advisory").
var probeMode = func(path string) uint32 {
	return 0
}

// ProbeMode returns the file mode bits for path, or 0 if the path
// cannot be stat'd. Used only to annotate events; never influences an
// AccessDecision.
func ProbeMode(path string) uint32 {
	return probeMode(path)
}
