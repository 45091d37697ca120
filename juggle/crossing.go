package juggle

// CrossingKind is for type of line crossing
type CrossingKind uint8

const (
	CrossingNone CrossingKind = iota
	// CrossingCatch is crossing from above the line to below it
	CrossingCatch
	// CrossingThrow is crossing from below the line to above it
	CrossingThrow
)

func (kind CrossingKind) String() string {
	switch kind {
	case CrossingNone:
		return "none"
	case CrossingCatch:
		return "catch"
	case CrossingThrow:
		return "throw"
	default:
		return "unknown"
	}
}

// Crossing is outcome of evaluating single trajectory against the line
type Crossing struct {
	Kind CrossingKind
	// Count increment
	Delta int
	// Remaining cooldown after evaluation
	Cooldown int
}

// CrossingRule is set of parameters for Evaluate
type CrossingRule struct {
	CatchMultiplier int
	// Number of frames both kinds of crossing are suppressed for after one is detected
	CooldownFrames int
}

// NewCrossingRule extracts crossing parameters from config
func NewCrossingRule(cfg Config) CrossingRule {
	return CrossingRule{
		CatchMultiplier: cfg.CatchMultiplier,
		CooldownFrames:  cfg.CooldownFrames,
	}
}

// LineY returns vertical position of the reference line
func LineY(lineHeightPercent float64, frameHeight int) float64 {
	return lineHeightPercent / 100.0 * float64(frameHeight)
}

// Evaluate checks object's vertical move from LastY to Y against lineY.
// Nothing is detected while cooldown is positive; a detected crossing of either direction restarts the cooldown,
// only a catch changes the count
func Evaluate(object TrackedObject, lineY float64, cooldown int, rule CrossingRule) Crossing {
	result := Crossing{Kind: CrossingNone, Cooldown: cooldown}
	if cooldown != 0 {
		return result
	}
	lastY, currentY := object.LastY, object.Y
	switch {
	case lastY < lineY && currentY >= lineY:
		result.Kind = CrossingCatch
		result.Delta = rule.CatchMultiplier
		result.Cooldown = rule.CooldownFrames
	case lastY > lineY && currentY <= lineY:
		result.Kind = CrossingThrow
		result.Cooldown = rule.CooldownFrames
	}
	return result
}
