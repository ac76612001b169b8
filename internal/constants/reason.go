package constants

// Reasons a path is left out of a run, reported through progress and logs
const (
	// ReasonExcluded marks paths matching an --exclude pattern
	ReasonExcluded = "excluded"

	// ReasonIgnored marks paths matched by a .gitignore or info/exclude file
	ReasonIgnored = "gitignore"

	// ReasonVendor marks vendored and generated directories
	ReasonVendor = "vendor"

	ReasonDotFile = "dot file"
	ReasonBinary  = "binary"

	// ReasonKind marks files whose linguist kind is not selected
	ReasonKind = "kind"

	// ReasonDuplicate marks a path already collected from an earlier argument
	ReasonDuplicate = "duplicate"
)
