// Package gates compares computed metrics against configured
// operator/threshold pairs and derives per-metric and overall verdicts.
package gates

import "fmt"

// Operator is a comparison drawn from {<, <=, >, >=}.
type Operator string

const (
	LessThan           Operator = "<"
	LessThanOrEqual    Operator = "<="
	GreaterThan        Operator = ">"
	GreaterThanOrEqual Operator = ">="
)

// Valid reports whether o is one of the four supported operators.
func (o Operator) Valid() bool {
	switch o {
	case LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual:
		return true
	default:
		return false
	}
}

// Rule is one metric's gate configuration.
type Rule struct {
	Operator  Operator `json:"operator"`
	Threshold float64  `json:"threshold"`
}

// Table maps metric name to its gate rule.
type Table map[string]Rule

// Result is a single metric's gate outcome.
type Result string

const (
	ResultPass             Result = "pass"
	ResultFail             Result = "fail"
	ResultInsufficientData Result = "insufficient_data"
)

// Verdict is the scenario's overall gate outcome.
type Verdict string

const (
	VerdictPass         Verdict = "pass"
	VerdictFail         Verdict = "fail"
	VerdictUndetermined Verdict = "undetermined"
)

// ConfigError wraps an unsupported gate operator. It is fatal for the
// scenario: the caller should treat the gate evaluation as failed outright.
type ConfigError struct {
	Metric   string
	Operator Operator
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("gate for metric %q uses unsupported operator %q", e.Metric, e.Operator)
}

// Evaluate compares each metric named in table against its configured
// rule. Metrics absent from values (i.e. not one of the six known metric
// keys) are ignored — see DESIGN.md for this Open Question's resolution.
// A nil metric value yields "insufficient_data" and never contributes to
// the overall verdict. An unsupported operator is a fatal configuration
// error: Evaluate returns the results computed so far and a non-nil error.
func Evaluate(values map[string]*float64, table Table) (map[string]Result, Verdict, error) {
	results := make(map[string]Result, len(table))
	evaluated := false
	anyFail := false

	for metric, rule := range table {
		v, known := values[metric]
		if !known {
			continue
		}
		if v == nil {
			results[metric] = ResultInsufficientData
			continue
		}

		pass, err := compare(*v, rule.Operator, rule.Threshold)
		if err != nil {
			return results, VerdictFail, &ConfigError{Metric: metric, Operator: rule.Operator}
		}

		evaluated = true
		if pass {
			results[metric] = ResultPass
		} else {
			results[metric] = ResultFail
			anyFail = true
		}
	}

	if !evaluated {
		return results, VerdictUndetermined, nil
	}
	if anyFail {
		return results, VerdictFail, nil
	}
	return results, VerdictPass, nil
}

func compare(value float64, op Operator, threshold float64) (bool, error) {
	switch op {
	case LessThan:
		return value < threshold, nil
	case LessThanOrEqual:
		return value <= threshold, nil
	case GreaterThan:
		return value > threshold, nil
	case GreaterThanOrEqual:
		return value >= threshold, nil
	default:
		return false, fmt.Errorf("unsupported gate operator %q", op)
	}
}
