package game

import "fmt"

type Meter string

const (
	MeterStamina   Meter = "stamina"
	MeterSatiety   Meter = "satiety"
	MeterHydration Meter = "hydration"
	MeterHealth    Meter = "health"
	MeterCombat    Meter = "combat"
	MeterSocial    Meter = "social"
	MeterSanity    Meter = "sanity"
	MeterMoney     Meter = "money"
)

func AllMeters() []Meter {
	return []Meter{
		MeterStamina,
		MeterSatiety,
		MeterHydration,
		MeterHealth,
		MeterCombat,
		MeterSocial,
		MeterSanity,
		MeterMoney,
	}
}

func ParseMeter(raw string) (Meter, error) {
	for _, m := range AllMeters() {
		if string(m) == raw {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown meter: %s", raw)
}

type Meters struct {
	Stamina   int `json:"stamina" yaml:"stamina"`
	Satiety   int `json:"satiety" yaml:"satiety"`
	Hydration int `json:"hydration" yaml:"hydration"`
	Health    int `json:"health" yaml:"health"`
	Combat    int `json:"combat" yaml:"combat"`
	Social    int `json:"social" yaml:"social"`
	Sanity    int `json:"sanity" yaml:"sanity"`
	Money     int `json:"money" yaml:"money"`
}

func (m *Meters) ref(meter Meter) *int {
	switch meter {
	case MeterStamina:
		return &m.Stamina
	case MeterSatiety:
		return &m.Satiety
	case MeterHydration:
		return &m.Hydration
	case MeterHealth:
		return &m.Health
	case MeterCombat:
		return &m.Combat
	case MeterSocial:
		return &m.Social
	case MeterSanity:
		return &m.Sanity
	case MeterMoney:
		return &m.Money
	default:
		return nil
	}
}

func (m Meters) Get(meter Meter) int {
	if p := m.ref(meter); p != nil {
		return *p
	}
	return 0
}

// Limits holds the ceilings. Combat and money have none.
type Limits struct {
	MaxStamina    int `json:"max_stamina" yaml:"max_stamina"`
	StatCeiling   int `json:"stat_ceiling" yaml:"stat_ceiling"`
	SocialCeiling int `json:"social_ceiling" yaml:"social_ceiling"`
	SanityCeiling int `json:"sanity_ceiling" yaml:"sanity_ceiling"`
}

func (l Limits) ceiling(meter Meter) (int, bool) {
	switch meter {
	case MeterStamina:
		return l.MaxStamina, true
	case MeterSatiety, MeterHydration, MeterHealth:
		return l.StatCeiling, true
	case MeterSocial:
		return l.SocialCeiling, true
	case MeterSanity:
		return l.SanityCeiling, true
	default:
		return 0, false
	}
}

// softCap is the ceiling plain adjustments respect. Sanity only climbs past
// the stat ceiling through AdjustCapped.
func (l Limits) softCap(meter Meter) int {
	if meter == MeterSanity {
		return l.StatCeiling
	}
	c, _ := l.ceiling(meter)
	return c
}

func (l Limits) clampAll(m Meters) Meters {
	for _, meter := range AllMeters() {
		p := m.ref(meter)
		if hi, bounded := l.ceiling(meter); bounded {
			*p = clamp(*p, 0, hi)
		} else if *p < 0 {
			*p = 0
		}
	}
	return m
}

// Ledger owns the eight meters. Every write goes through it and is clamped.
type Ledger struct {
	Meters Meters `json:"meters"`
	Limits Limits `json:"limits"`
}

func NewLedger(start Meters, limits Limits) Ledger {
	return Ledger{Meters: limits.clampAll(start), Limits: limits}
}

func (l *Ledger) Get(meter Meter) int {
	return l.Meters.Get(meter)
}

// Consume subtracts amount only when the meter can cover it.
func (l *Ledger) Consume(meter Meter, amount int) bool {
	if amount <= 0 {
		return true
	}
	p := l.Meters.ref(meter)
	if p == nil || *p < amount {
		return false
	}
	*p -= amount
	return true
}

func (l *Ledger) Adjust(meter Meter, delta int) {
	l.AdjustCapped(meter, delta, l.Limits.softCap(meter))
}

// AdjustCapped adds delta with an upper bound of limit, never above the
// meter's own ceiling. A value already above limit is not pulled down by a gain.
func (l *Ledger) AdjustCapped(meter Meter, delta int, limit int) {
	p := l.Meters.ref(meter)
	if p == nil {
		return
	}
	next := *p + delta
	hi, bounded := l.Limits.ceiling(meter)
	if !bounded {
		if next < 0 {
			next = 0
		}
		*p = next
		return
	}
	if limit < hi {
		hi = max(limit, min(*p, hi))
	}
	*p = clamp(next, 0, hi)
}

func (l *Ledger) Recover(amount int) {
	l.Meters.Stamina = clamp(l.Meters.Stamina+amount, 0, l.Limits.MaxStamina)
}

func (l *Ledger) Set(meter Meter, value int) {
	p := l.Meters.ref(meter)
	if p == nil {
		return
	}
	*p = value
	l.Meters = l.Limits.clampAll(l.Meters)
}

func (l *Ledger) Credit(amount int) {
	if amount > 0 {
		l.Adjust(MeterMoney, amount)
	}
}

func (l *Ledger) Debit(amount int) bool {
	return l.Consume(MeterMoney, amount)
}

func (l *Ledger) apply(effects map[Meter]int) {
	for _, meter := range AllMeters() {
		if delta, ok := effects[meter]; ok && delta != 0 {
			l.Adjust(meter, delta)
		}
	}
}

func clamp(number, min, max int) int {
	if number < min {
		return min
	}
	if number > max {
		return max
	}
	return number
}
