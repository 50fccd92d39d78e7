package common

import "hash/fnv"

// ScriptcVersion is the current compiler version as a string.
const ScriptcVersion string = "0.1.0"

// ManifestFileExt is the file extension for module manifests.
const ManifestFileExt string = ".toml"

// RootNamespace is the qualified-name prefix given to compiled classes whose
// host class has no enclosing module.
const RootNamespace string = "__script__"

// GenerateIDFromName converts a qualified host name into a numeric ID. Host
// classes and functions use it to derive stable identities for hashing.
func GenerateIDFromName(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
