package payroll

import (
	"math"
	"testing"
)

func TestBuildSalaryComponents(t *testing.T) {
	components, err := BuildSalaryComponents(30000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(components) != len(structureTable) {
		t.Fatalf("expected %d components, got %d", len(structureTable), len(components))
	}

	want := map[string]float64{
		"Basic Salary":           15000,
		"House Rent Allowance":   7500,
		"Standard Allowance":     5001,
		"Performance Bonus":      2499,
		"Leave Travel Allowance": 2499,
		"Fixed Allowance":        3501,
		"PF Employee":            1800,
		"PF Employer":            1800,
		"Professional Tax":       200,
	}
	for _, comp := range components {
		expected, ok := want[comp.Name]
		if !ok {
			t.Fatalf("unexpected component %q", comp.Name)
		}
		if math.Abs(comp.Amount-expected) > 0.01 {
			t.Fatalf("%s: expected %.2f, got %.2f", comp.Name, expected, comp.Amount)
		}
	}
}

func TestBuildSalaryComponentsEarningsCoverWage(t *testing.T) {
	const wage = 30000.0

	components, err := BuildSalaryComponents(wage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var earnings float64
	for _, comp := range components {
		if comp.Kind == ComponentEarning {
			earnings += comp.Amount
		}
	}
	if math.Abs(earnings-wage) > wage*0.001 {
		t.Fatalf("expected earnings to sum to the wage, got %.2f", earnings)
	}
}

func TestBuildSalaryComponentsInvalidWage(t *testing.T) {
	if _, err := BuildSalaryComponents(0); err != ErrInvalidWage {
		t.Fatalf("expected ErrInvalidWage for zero wage, got %v", err)
	}
	if _, err := BuildSalaryComponents(-1000); err != ErrInvalidWage {
		t.Fatalf("expected ErrInvalidWage for negative wage, got %v", err)
	}
}

func TestBuildSalaryComponentsIdempotent(t *testing.T) {
	first, err := BuildSalaryComponents(45000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := BuildSalaryComponents(45000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("component %d differs between builds: %+v vs %+v", i, first[i], second[i])
		}
	}
}
