package model

// Significance classifies how much a set of commits matters for versioning.
// Values are totally ordered: None < Fix < Feature < Breaking.
type Significance int

const (
	SignificanceNone Significance = iota
	SignificanceFix
	SignificanceFeature
	SignificanceBreaking
)

func (s Significance) String() string {
	switch s {
	case SignificanceFix:
		return "fix"
	case SignificanceFeature:
		return "feature"
	case SignificanceBreaking:
		return "breaking"
	default:
		return "none"
	}
}

// Max returns the higher of two significances
func (s Significance) Max(other Significance) Significance {
	if other > s {
		return other
	}
	return s
}

// ReleaseType maps a significance to the bump level it requires.
// SignificanceNone maps to the empty release type.
func (s Significance) ReleaseType() ReleaseType {
	switch s {
	case SignificanceBreaking:
		return ReleaseTypeMajor
	case SignificanceFeature:
		return ReleaseTypeMinor
	case SignificanceFix:
		return ReleaseTypePatch
	default:
		return ""
	}
}
