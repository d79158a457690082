package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with purpose, expression, dice values,
// modifier, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the randomness provider backing this Roller.
func (r *Roller) Source() Source { return r.src }

// Roll evaluates expr and logs the result at debug level under purpose.
//
// Precondition: expr must come from Parse.
// Postcondition: result logged and returned.
func (r *Roller) Roll(purpose string, expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("purpose", purpose),
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// Chance reports whether an event with probability numerator/denominator
// occurs, logging the draw at debug level under purpose.
//
// Precondition: 0 <= numerator <= denominator; denominator > 0.
func (r *Roller) Chance(purpose string, numerator, denominator int) bool {
	draw := r.src.Intn(denominator)
	hit := draw < numerator
	r.logger.Debug("dice chance",
		zap.String("purpose", purpose),
		zap.Int("draw", draw),
		zap.Int("numerator", numerator),
		zap.Int("denominator", denominator),
		zap.Bool("hit", hit),
	)
	return hit
}
