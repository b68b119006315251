package common

const (
	major = 1
	minor = 0
	patch = 0

	// Version is the version of the contract code, reported by the
	// `version` view method. Single number for easy comparison by tooling.
	Version = major*1_000_000 + minor*1_000 + patch
)
