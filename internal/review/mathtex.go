package review

import "regexp"

// mathRewrites convert common plain-notation math tokens into LaTeX so that
// summaries render consistently downstream. Rewriting is best effort: tokens
// that do not match are left untouched.
var mathRewrites = []struct {
	re   *regexp.Regexp
	repl string
}{
	// Exponents and subscripts: x^2 -> x^{2}, x_i -> x_{i}.
	{regexp.MustCompile(`(\w)\^(\w+)`), `$1^{$2}`},
	{regexp.MustCompile(`(\w)_(\w+)`), `${1}_{$2}`},

	// Greek letters written out as words.
	{regexp.MustCompile(`(?i)\balpha\b`), `\alpha`},
	{regexp.MustCompile(`(?i)\bbeta\b`), `\beta`},
	{regexp.MustCompile(`(?i)\bgamma\b`), `\gamma`},
	{regexp.MustCompile(`(?i)\bdelta\b`), `\delta`},
	{regexp.MustCompile(`(?i)\bepsilon\b`), `\epsilon`},
	{regexp.MustCompile(`(?i)\btheta\b`), `\theta`},
	{regexp.MustCompile(`(?i)\blambda\b`), `\lambda`},
	{regexp.MustCompile(`(?i)\bsigma\b`), `\sigma`},
	{regexp.MustCompile(`(?i)\bomega\b`), `\omega`},

	// Common operators and relations.
	{regexp.MustCompile(`\bsqrt\(`), `\sqrt(`},
	{regexp.MustCompile(`\bsum\b`), `\sum`},
	{regexp.MustCompile(`\bprod\b`), `\prod`},
	{regexp.MustCompile(`\binfty\b`), `\infty`},
	{regexp.MustCompile(`<=`), `\leq`},
	{regexp.MustCompile(`>=`), `\geq`},
	{regexp.MustCompile(`!=`), `\neq`},
	{regexp.MustCompile(`\+-`), `\pm`},
}

// MathToLaTeX rewrites plain math notation in s into LaTeX commands.
func MathToLaTeX(s string) string {
	for _, rw := range mathRewrites {
		s = rw.re.ReplaceAllString(s, rw.repl)
	}
	return s
}
