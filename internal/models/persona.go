package models

import (
	"errors"
	"fmt"
)

// PersonaKey identifies one of the customer archetypes in the persona catalogue.
type PersonaKey string

const (
	PersonaSalesLead PersonaKey = "salesLead"
	PersonaAE        PersonaKey = "ae"
	PersonaFounder   PersonaKey = "founder"
)

// ErrInvalidPersonaKey is returned for keys outside the catalogue.
var ErrInvalidPersonaKey = errors.New("invalid persona key")

// ParsePersonaKey accepts exactly the catalogue keys; no case folding or trimming.
func ParsePersonaKey(s string) (PersonaKey, error) {
	switch k := PersonaKey(s); k {
	case PersonaSalesLead, PersonaAE, PersonaFounder:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPersonaKey, s)
	}
}

// PersonaKeys lists the catalogue in display order.
func PersonaKeys() []PersonaKey {
	return []PersonaKey{PersonaSalesLead, PersonaAE, PersonaFounder}
}

type Persona struct {
	Key           PersonaKey `json:"key" yaml:"key"`
	Title         string     `json:"title" yaml:"title"`
	Jobs          []string   `json:"jobs" yaml:"jobs"`
	Pains         []string   `json:"pains" yaml:"pains"`
	Opportunities []string   `json:"opportunities" yaml:"opportunities"`
}

var personaCatalog = map[PersonaKey]Persona{
	PersonaSalesLead: {
		Key:   PersonaSalesLead,
		Title: "Sales lead",
		Jobs: []string{
			"Keep a healthy pipeline that the team trusts",
			"Decide quickly where to focus sales energy",
			"Report to leadership without manual spreadsheet work",
		},
		Pains: []string{
			"Reps chase low value leads because there is no shared prioritisation logic",
			"Pipeline meetings are reactive and focused on explaining numbers",
			"Difficult to see which activities actually drive deals forward",
		},
		Opportunities: []string{
			"Provide a clear 'Next best lead' view inside Lime Go",
			"Highlight segments and sources that convert best",
			"Give simple dashboards that are easy to discuss in weekly meetings",
		},
	},
	PersonaAE: {
		Key:   PersonaAE,
		Title: "Account executive",
		Jobs: []string{
			"Hit quota without burning out",
			"Spend more time with the right customers",
			"Move deals forward with clarity on next step",
		},
		Pains: []string{
			"Too many leads feel the same in the list view",
			"Hard to know which deals are realistically winnable this month",
			"Context is scattered between emails, notes and calls",
		},
		Opportunities: []string{
			"Surface high-intent accounts with a score and explanation",
			"Show a focused daily view of 10–15 high leverage actions",
			"Tie all activities to a simple progress indicator in Lime Go",
		},
	},
	PersonaFounder: {
		Key:   PersonaFounder,
		Title: "Founder",
		Jobs: []string{
			"Build a repeatable sales motion, not just heroic wins",
			"Understand which customers are the best fit",
			"Get quick answers without running new reports each time",
		},
		Pains: []string{
			"Sales knowledge lives in people, not in systems",
			"Unclear whether money is left on the table in existing pipeline",
			"Hard to compare performance between markets or segments",
		},
		Opportunities: []string{
			"Use Lime Go as the single source of truth for deals and activities",
			"Create simple, comparable views across segments and countries",
			"Experiment with prioritisation rules and see impact over time",
		},
	},
}

// LookupPersona returns a copy of the catalogue entry so callers cannot mutate it.
func LookupPersona(key PersonaKey) (Persona, bool) {
	p, ok := personaCatalog[key]
	if !ok {
		return Persona{}, false
	}
	return Persona{
		Key:           p.Key,
		Title:         p.Title,
		Jobs:          append([]string(nil), p.Jobs...),
		Pains:         append([]string(nil), p.Pains...),
		Opportunities: append([]string(nil), p.Opportunities...),
	}, true
}
