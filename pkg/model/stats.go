package model

import (
	"fmt"
	"strings"
)

// StatGroup selects which stats the radar chart shows.
type StatGroup string

const (
	GroupAll     StatGroup = "all"
	GroupOffense StatGroup = "offense"
	GroupDefense StatGroup = "defense"
)

// StatGroups is the cycling order used by the control panel.
var StatGroups = []StatGroup{GroupAll, GroupOffense, GroupDefense}

// Stats returns the group's stats in canonical order.
func (g StatGroup) Stats() []Stat {
	switch g {
	case GroupOffense:
		return []Stat{StatAttack, StatSpAttack, StatSpeed}
	case GroupDefense:
		return []Stat{StatDefense, StatSpDefense, StatHP}
	default:
		return append([]Stat(nil), AllStats...)
	}
}

// String returns a display label.
func (g StatGroup) String() string {
	switch g {
	case GroupOffense:
		return "Offense"
	case GroupDefense:
		return "Defense"
	default:
		return "All"
	}
}

// Next cycles to the following group.
func (g StatGroup) Next() StatGroup {
	for i, s := range StatGroups {
		if s == g {
			return StatGroups[(i+1)%len(StatGroups)]
		}
	}
	return GroupAll
}

// ParseStatGroup accepts "all", "offense" or "defense" (case-insensitive).
func ParseStatGroup(s string) (StatGroup, error) {
	switch StatGroup(strings.ToLower(strings.TrimSpace(s))) {
	case "", GroupAll:
		return GroupAll, nil
	case GroupOffense:
		return GroupOffense, nil
	case GroupDefense:
		return GroupDefense, nil
	}
	return GroupAll, fmt.Errorf("unknown stat group %q (want all, offense or defense)", s)
}

// BarAttributes are the categorical columns the bar chart can group by.
var BarAttributes = []string{ColType1, ColType2, ColColor, ColBody, ColGen, ColEggGroup}
