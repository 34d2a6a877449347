package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreditedFor(t *testing.T) {
	tests := []struct {
		name    string
		deal    Deal
		company string
		want    bool
	}{
		{
			name: "slot flag set",
			deal: Deal{Companies: []CompanyAssignment{
				{CompanyName: "Sol AB", LeadType: LeadTypeOffert, Credited: true},
			}},
			company: "Sol AB",
			want:    true,
		},
		{
			name: "not credited",
			deal: Deal{Companies: []CompanyAssignment{
				{CompanyName: "Sol AB", LeadType: LeadTypeOffert},
			}},
			company: "Sol AB",
			want:    false,
		},
		{
			name: "list counts even when the slot flag was wiped",
			deal: Deal{
				Companies: []CompanyAssignment{
					{CompanyName: "Sol AB", LeadType: LeadTypeOffert, Credited: false},
				},
				CreditedCompanies: []string{"Sol AB"},
			},
			company: "Sol AB",
			want:    true,
		},
		{
			name: "list entry without a slot",
			deal: Deal{
				CreditedCompanies: []string{"Taksol AB"},
			},
			company: "Taksol AB",
			want:    true,
		},
		{
			name:    "unknown company",
			deal:    Deal{Companies: []CompanyAssignment{{CompanyName: "Sol AB", LeadType: LeadTypeOffert}}},
			company: "Taksol AB",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.deal.CreditedFor(tt.company))
		})
	}
}

func TestRestoreCreditedState(t *testing.T) {
	stored := Deal{
		Companies: []CompanyAssignment{
			{CompanyName: "Sol AB", LeadType: LeadTypeOffert, Credited: false},
			{CompanyName: "Taksol AB", LeadType: LeadTypePlatsbesok, Credited: true},
		},
		CreditedCompanies: []string{"Sol AB"},
	}

	// Assignments as a CRM sync delivers them: credit-backs unknown
	synced := []CompanyAssignment{
		{CompanyName: "Sol AB", LeadType: LeadTypeOffert},
		{CompanyName: "Taksol AB", LeadType: LeadTypePlatsbesok},
		{CompanyName: "Energi Nord AB", LeadType: LeadTypeOffert},
	}

	stored.RestoreCreditedState(synced)

	assert.True(t, synced[0].Credited)
	assert.True(t, synced[1].Credited)
	assert.False(t, synced[2].Credited)
}
