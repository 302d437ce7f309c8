package signal

import "math"

// RR returns the reward:risk ratio of a planned trade.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	reward := math.Abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// RewardRisk reports the record's reward:risk ratio, or 0 for HOLD.
func (r Record) RewardRisk() float64 {
	if r.TPPrice == nil || r.SLPrice == nil {
		return 0
	}
	return RR(r.EntryPrice, *r.SLPrice, *r.TPPrice)
}
