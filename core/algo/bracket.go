package algo

import "github.com/huangsam/maturity/schema"

// SelectBracket maps a base score to exactly one bracket. Thresholds are
// checked from the highest down and boundary values belong to the higher
// bracket. NaN falls through every check and lands in the lowest bracket.
func SelectBracket(base float64) schema.Bracket {
	switch {
	case base >= 4.5:
		return schema.Bracket45
	case base >= 4.0:
		return schema.Bracket40
	case base >= 3.5:
		return schema.Bracket35
	case base >= 3.0:
		return schema.Bracket30
	case base >= 2.5:
		return schema.Bracket25
	case base >= 2.0:
		return schema.Bracket20
	case base >= 1.5:
		return schema.Bracket15
	default:
		return schema.Bracket10
	}
}
