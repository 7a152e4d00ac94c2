package schema

import "testing"

func TestDecode(t *testing.T) {
	type result struct {
		Complaint string   `json:"complaint"`
		Duration  string   `json:"duration"`
		Symptoms  []string `json:"symptoms"`
	}

	var out result
	err := Decode(map[string]any{
		"complaint": "chest pain",
		"duration":  2, // weakly typed input is stringified
		"symptoms":  []any{"sweating"},
	}, &out)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if out.Complaint != "chest pain" {
		t.Errorf("Complaint = %q", out.Complaint)
	}
	if out.Duration != "2" {
		t.Errorf("Duration = %q, want weak coercion to string", out.Duration)
	}
	if len(out.Symptoms) != 1 || out.Symptoms[0] != "sweating" {
		t.Errorf("Symptoms = %v", out.Symptoms)
	}
}
