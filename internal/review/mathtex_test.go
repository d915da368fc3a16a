package review

import "testing"

func TestMathToLaTeX(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"E = m c^2", `E = m c^{2}`},
		{"x_i and x_j", `x_{i} and x_{j}`},
		{"the alpha parameter", `the \alpha parameter`},
		{"Sigma and omega", `\sigma and \omega`},
		{"a <= b and b >= c", `a \leq b and b \geq c`},
		{"x != y", `x \neq y`},
		{"sum over i to infty", `\sum over i to \infty`},
		{"no math here", "no math here"},
		{"", ""},
		// Greek names inside larger words stay untouched.
		{"capital investment", "capital investment"},
		{"deltas of change", "deltas of change"},
	}
	for _, tt := range tests {
		if got := MathToLaTeX(tt.in); got != tt.want {
			t.Errorf("MathToLaTeX(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
