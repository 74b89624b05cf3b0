package meisai

import (
	"github.com/rs/zerolog/log"

	"github.com/tsawler/meisai/amount"
	"github.com/tsawler/meisai/model"
)

// PatchTotal cross-checks a resolved total amount against the summed line
// item amounts and corrects one narrow class of recognition digit-loss: the
// patch fires only when the sum exceeds the materiality floor, the candidate
// total is below RatioThreshold of the sum, and the two values differ by
// exactly one digit in length. In that signature the candidate lost a
// leading digit and the total is reconstructed from the sum. Any other
// mismatch is left untouched; the correction is not sound outside this
// exact trigger.
func PatchTotal(total string, items []model.LineItem, config ValidationConfig) string {
	if total == "" || len(items) == 0 {
		return total
	}

	sum := 0.0
	counted := 0
	for _, item := range items {
		v, ok := amount.Parse(item.Amount)
		if !ok {
			continue
		}
		sum += v
		counted++
	}
	if counted == 0 || sum <= config.MaterialityFloor {
		return total
	}

	candidate, ok := amount.Parse(total)
	if !ok || candidate >= config.RatioThreshold*sum {
		return total
	}

	patched := amount.Format(sum)
	if amount.DigitLen(patched) != amount.DigitLen(total)+1 {
		return total
	}

	log.Debug().
		Str("candidate", total).
		Str("patched", patched).
		Msg("total amount corrected against line item sum")

	return patched
}
