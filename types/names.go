package types

import "strings"

// QualifiedName is a dotted name such as `models.encoder.Encoder`.  The
// prefix is everything before the last dot.
type QualifiedName struct {
	Prefix string
	Name   string
}

// ParseQualifiedName splits a dotted name into its prefix and final name.
func ParseQualifiedName(dotted string) QualifiedName {
	if ndx := strings.LastIndexByte(dotted, '.'); ndx >= 0 {
		return QualifiedName{Prefix: dotted[:ndx], Name: dotted[ndx+1:]}
	}

	return QualifiedName{Name: dotted}
}

// WithPrefix returns the name with a new prefix.
func (qn QualifiedName) WithPrefix(prefix string) QualifiedName {
	return QualifiedName{Prefix: prefix, Name: qn.Name}
}

// Atoms returns the dotted components of the name.
func (qn QualifiedName) Atoms() []string {
	if qn.Prefix == "" {
		return []string{qn.Name}
	}

	return append(strings.Split(qn.Prefix, "."), qn.Name)
}

func (qn QualifiedName) String() string {
	if qn.Prefix == "" {
		return qn.Name
	}

	return qn.Prefix + "." + qn.Name
}
