package gates

import (
	"errors"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestOperator_Valid(t *testing.T) {
	for _, op := range []Operator{LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual} {
		if !op.Valid() {
			t.Errorf("%q.Valid() = false, want true", op)
		}
	}
	for _, op := range []Operator{"", "==", "~=", "!="} {
		if op.Valid() {
			t.Errorf("%q.Valid() = true, want false", op)
		}
	}
}

func TestEvaluate_AllPass(t *testing.T) {
	values := map[string]*float64{
		"camera_jerk_p95": ptr(1.0),
		"pan_speed_p95":   ptr(0.2),
	}
	table := Table{
		"camera_jerk_p95": {Operator: LessThanOrEqual, Threshold: 2.0},
		"pan_speed_p95":   {Operator: LessThan, Threshold: 0.5},
	}
	results, verdict, err := Evaluate(values, table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict != VerdictPass {
		t.Errorf("verdict = %q, want pass", verdict)
	}
	if results["camera_jerk_p95"] != ResultPass || results["pan_speed_p95"] != ResultPass {
		t.Errorf("results = %+v, want both pass", results)
	}
}

func TestEvaluate_OneFailFailsOverall(t *testing.T) {
	values := map[string]*float64{
		"camera_jerk_p95": ptr(5.0),
		"pan_speed_p95":   ptr(0.2),
	}
	table := Table{
		"camera_jerk_p95": {Operator: LessThanOrEqual, Threshold: 2.0},
		"pan_speed_p95":   {Operator: LessThan, Threshold: 0.5},
	}
	results, verdict, err := Evaluate(values, table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict != VerdictFail {
		t.Errorf("verdict = %q, want fail", verdict)
	}
	if results["camera_jerk_p95"] != ResultFail {
		t.Errorf("camera_jerk_p95 = %q, want fail", results["camera_jerk_p95"])
	}
}

func TestEvaluate_NilMetricIsInsufficientDataAndIgnoredForVerdict(t *testing.T) {
	values := map[string]*float64{"camera_jerk_p95": nil}
	table := Table{"camera_jerk_p95": {Operator: LessThan, Threshold: 2.0}}
	results, verdict, err := Evaluate(values, table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results["camera_jerk_p95"] != ResultInsufficientData {
		t.Errorf("result = %q, want insufficient_data", results["camera_jerk_p95"])
	}
	if verdict != VerdictUndetermined {
		t.Errorf("verdict = %q, want undetermined", verdict)
	}
}

func TestEvaluate_UnknownMetricKeyIgnored(t *testing.T) {
	values := map[string]*float64{"camera_jerk_p95": ptr(1.0)}
	table := Table{"not_a_real_metric": {Operator: LessThan, Threshold: 2.0}}
	results, verdict, err := Evaluate(values, table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want empty", results)
	}
	if verdict != VerdictUndetermined {
		t.Errorf("verdict = %q, want undetermined", verdict)
	}
}

func TestEvaluate_EmptyTableIsUndetermined(t *testing.T) {
	_, verdict, err := Evaluate(map[string]*float64{"camera_jerk_p95": ptr(1.0)}, Table{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict != VerdictUndetermined {
		t.Errorf("verdict = %q, want undetermined", verdict)
	}
}

func TestEvaluate_UnsupportedOperatorIsConfigError(t *testing.T) {
	values := map[string]*float64{"camera_jerk_p95": ptr(1.0)}
	table := Table{"camera_jerk_p95": {Operator: "!=", Threshold: 2.0}}
	_, verdict, err := Evaluate(values, table)
	if err == nil {
		t.Fatal("expected a ConfigError")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want *ConfigError", err)
	}
	if verdict != VerdictFail {
		t.Errorf("verdict = %q, want fail", verdict)
	}
}
