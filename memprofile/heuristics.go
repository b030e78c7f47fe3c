package memprofile

// hotspotLimit bounds the hotspot list to the top N functions by memory-op
// count.
const hotspotLimit = 10

// allocNameSubstrings flags an export or import name as an allocation
// pattern when it contains one of these substrings. Matching is
// case-insensitive; the finding's risk is advisory only.
var allocNameSubstrings = []string{"alloc", "malloc", "free", "dealloc"}
