package game

import "math"

// AlertParams tunes the alert gauge and its periodic dynamics.
type AlertParams struct {
	Max                 float64 // gauge ceiling (100)
	DetectAt            float64 // detection latch threshold (80)
	DecayBase           float64 // points removed per decay pass
	DecayVPN            float64 // decay multiplier while a vpn is held
	DecayCleaner        float64 // decay multiplier while a cleaner is held
	CriticalAt          float64 // tier: forced disconnect
	CriticalChance      float64
	ReinforcedAt        float64 // tier: security reinforced
	ReinforcedChance    float64
	ReinforcedAmount    float64
	SurveillanceAt      float64 // tier: increased surveillance
	SurveillanceChance  float64
	SurveillanceAmount  float64
	DetectionKillChance float64 // chance the target cuts the link on detection
}

// DefaultAlertParams returns the stock tuning.
func DefaultAlertParams() AlertParams {
	return AlertParams{
		Max:                 AlertMax,
		DetectAt:            AlertDetectAt,
		DecayBase:           0.5,
		DecayVPN:            1.5,
		DecayCleaner:        1.3,
		CriticalAt:          90,
		CriticalChance:      0.10,
		ReinforcedAt:        75,
		ReinforcedChance:    0.20,
		ReinforcedAmount:    5,
		SurveillanceAt:      50,
		SurveillanceChance:  0.15,
		SurveillanceAmount:  2,
		DetectionKillChance: 0.5,
	}
}

// SanitizeAlertParams replaces out-of-range values with defaults.
func SanitizeAlertParams(p AlertParams) AlertParams {
	d := DefaultAlertParams()
	if !(p.Max > 0) {
		p.Max = d.Max
	}
	if !(p.DetectAt > 0 && p.DetectAt <= p.Max) {
		p.DetectAt = math.Min(d.DetectAt, p.Max)
	}
	if !(p.DecayBase >= 0) {
		p.DecayBase = d.DecayBase
	}
	if !(p.DecayVPN >= 1) {
		p.DecayVPN = d.DecayVPN
	}
	if !(p.DecayCleaner >= 1) {
		p.DecayCleaner = d.DecayCleaner
	}
	if !(p.CriticalAt > 0 && p.CriticalAt <= p.Max) {
		p.CriticalAt = math.Min(d.CriticalAt, p.Max)
	}
	if !(p.ReinforcedAt > 0 && p.ReinforcedAt <= p.CriticalAt) {
		p.ReinforcedAt = math.Min(d.ReinforcedAt, p.CriticalAt)
	}
	if !(p.SurveillanceAt > 0 && p.SurveillanceAt <= p.ReinforcedAt) {
		p.SurveillanceAt = math.Min(d.SurveillanceAt, p.ReinforcedAt)
	}
	p.CriticalChance = clampChance(p.CriticalChance, d.CriticalChance)
	p.ReinforcedChance = clampChance(p.ReinforcedChance, d.ReinforcedChance)
	p.SurveillanceChance = clampChance(p.SurveillanceChance, d.SurveillanceChance)
	p.DetectionKillChance = clampChance(p.DetectionKillChance, d.DetectionKillChance)
	if !(p.ReinforcedAmount >= 0) {
		p.ReinforcedAmount = d.ReinforcedAmount
	}
	if !(p.SurveillanceAmount >= 0) {
		p.SurveillanceAmount = d.SurveillanceAmount
	}
	return p
}

func clampChance(v, fallback float64) float64 {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fallback
	}
	return v
}

// AlertGauge is the suspicion gauge of a session.
type AlertGauge struct {
	P        AlertParams
	Value    float64 // 0..P.Max
	Detected bool    // latched once Value first reaches P.DetectAt
}

// Raise adds amount/stealth to the gauge, clamps it, and reports whether
// this call latched detection.
func (g *AlertGauge) Raise(amount, stealth float64) (detectedNow bool) {
	if stealth <= 0 {
		stealth = 1
	}
	g.Value = Clamp(g.Value+amount/stealth, 0, g.P.Max)
	if !g.Detected && g.Value >= g.P.DetectAt {
		g.Detected = true
		return true
	}
	return false
}

// Decay lowers the gauge directly, without the stealth divisor.
func (g *AlertGauge) Decay(amount float64) {
	g.Value = Clamp(g.Value-amount, 0, g.P.Max)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
