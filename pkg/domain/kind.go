package domain

// ObjectKind tags the shape a radar file decodes into.
type ObjectKind int

const (
	KindUndefined ObjectKind = iota
	KindVolume
	KindScan
)

// String returns the ODIM what/object code.
func (k ObjectKind) String() string {
	switch k {
	case KindVolume:
		return "PVOL"
	case KindScan:
		return "SCAN"
	default:
		return "UNDEFINED"
	}
}

// Object is a polar volume or a polar scan.
type Object interface {
	Kind() ObjectKind
	Validate() error
}
