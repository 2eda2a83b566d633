package combat

// HitType is the 5-tier attack roll outcome.
type HitType int

const (
	CriticalMiss HitType = iota
	Miss
	Partial
	Hit
	CriticalHit
)

// String returns the wire name of the hit type.
func (h HitType) String() string {
	switch h {
	case CriticalMiss:
		return "critical_miss"
	case Miss:
		return "miss"
	case Partial:
		return "partial"
	case Hit:
		return "hit"
	case CriticalHit:
		return "critical_hit"
	default:
		return "unknown"
	}
}

// HitResult pairs the hit/miss decision with its tier.
type HitResult struct {
	Hit  bool
	Type HitType
}

// DetermineHitResult maps a d10 roll against an effective threshold:
//
//	roll == 1  -> critical miss, always (overrides the threshold)
//	roll == 10 -> critical hit, always
//	roll <  t  -> miss
//	roll == t  -> partial hit
//	roll >  t  -> hit
//
// When softVsHeavy is set only a natural 10 lands at all; every other roll
// is a miss (1 still reads as a critical miss).
//
// Precondition: roll in [1, 10]; threshold in [MinThreshold, MaxThreshold].
func DetermineHitResult(roll, threshold int, softVsHeavy bool) HitResult {
	switch {
	case roll == 1:
		return HitResult{Type: CriticalMiss}
	case roll == 10:
		return HitResult{Hit: true, Type: CriticalHit}
	case softVsHeavy:
		return HitResult{Type: Miss}
	case roll < threshold:
		return HitResult{Type: Miss}
	case roll == threshold:
		return HitResult{Hit: true, Type: Partial}
	default:
		return HitResult{Hit: true, Type: Hit}
	}
}
