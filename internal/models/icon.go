// internal/models/icon.go
package models

import "encoding/json"

// Icon is the closed set of metric icons a renderer knows how to draw.
type Icon string

const (
	IconDollarSign Icon = "DollarSign"
	IconTrendingUp Icon = "TrendingUp"
	IconTarget     Icon = "Target"
	IconZap        Icon = "Zap"
	IconShield     Icon = "Shield"
	IconGlobe      Icon = "Globe"
	IconUsers      Icon = "Users"
	IconRocket     Icon = "Rocket"

	DefaultIcon = IconDollarSign
)

var knownIcons = map[Icon]struct{}{
	IconDollarSign: {},
	IconTrendingUp: {},
	IconTarget:     {},
	IconZap:        {},
	IconShield:     {},
	IconGlobe:      {},
	IconUsers:      {},
	IconRocket:     {},
}

// ParseIcon maps s to a known icon, falling back to DefaultIcon.
func ParseIcon(s string) Icon {
	if _, ok := knownIcons[Icon(s)]; ok {
		return Icon(s)
	}
	return DefaultIcon
}

func (i Icon) Valid() bool {
	_, ok := knownIcons[i]
	return ok
}

// UnmarshalJSON never fails on an unknown icon name; it decodes to DefaultIcon.
func (i *Icon) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*i = DefaultIcon
		return nil
	}
	*i = ParseIcon(s)
	return nil
}
