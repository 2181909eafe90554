package models

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePersonaKey(t *testing.T) {
	tests := []struct {
		in      string
		want    PersonaKey
		wantErr bool
	}{
		{"salesLead", PersonaSalesLead, false},
		{"ae", PersonaAE, false},
		{"founder", PersonaFounder, false},
		{"SalesLead", "", true},
		{" ae", "", true},
		{"cto", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePersonaKey(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPersonaKey))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupPersona_AllKeysHaveThreeOfEach(t *testing.T) {
	for _, key := range PersonaKeys() {
		p, ok := LookupPersona(key)
		require.True(t, ok, key)
		assert.Equal(t, key, p.Key)
		assert.NotEmpty(t, p.Title)
		assert.Len(t, p.Jobs, 3)
		assert.Len(t, p.Pains, 3)
		assert.Len(t, p.Opportunities, 3)
	}

	_, ok := LookupPersona("cto")
	assert.False(t, ok)
}

func TestLookupPersona_ReturnsCopies(t *testing.T) {
	first, _ := LookupPersona(PersonaAE)
	first.Jobs[0] = "mutated"
	first.Opportunities = append(first.Opportunities, "extra")

	second, _ := LookupPersona(PersonaAE)
	assert.Equal(t, "Hit quota without burning out", second.Jobs[0])
	assert.Len(t, second.Opportunities, 3)
	assert.Equal(t, "Show a focused daily view of 10–15 high leverage actions", second.Opportunities[1])
}

func TestDefaultInitiatives_FreshCopies(t *testing.T) {
	a := DefaultInitiatives()
	a[0].Name = "changed"

	want := []Initiative{
		{Name: "Lead focus view with simple score", UserValue: 9, BusinessValue: 8, Effort: 4},
		{Name: "Playbooks and next-best-action suggestions", UserValue: 8, BusinessValue: 9, Effort: 6},
		{Name: "Advanced multi-region reporting suite", UserValue: 6, BusinessValue: 7, Effort: 8},
		{Name: "In-app onboarding tour for new users", UserValue: 7, BusinessValue: 6, Effort: 3},
	}
	if diff := cmp.Diff(want, DefaultInitiatives()); diff != "" {
		t.Errorf("DefaultInitiatives() mismatch (-want +got):\n%s", diff)
	}
}
