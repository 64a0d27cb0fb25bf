package mathtext

import (
	"regexp"
	"strings"
)

// JSON decoding turns "\frac" into a form feed followed by "rac", "\times"
// into a tab followed by "imes", and so on. These are put back first.
var controlRepairs = strings.NewReplacer(
	"\f", `\f`,
	"\t", `\t`,
	"\b", `\b`,
	"\r", `\r`,
)

var (
	newlineCommand = regexp.MustCompile(`\n([A-Za-z])`)
	bareCommand    = regexp.MustCompile(`(^|[^\\A-Za-z])(frac|text)\{`)
)

var typoRepairs = strings.NewReplacer(
	`\rac{`, `\frac{`,
	`\ext{`, `\text{`,
	`\imes`, `\times`,
)

// Repair fixes known malformed commands in a LaTeX expression.
func Repair(tex string) string {
	fixed := controlRepairs.Replace(tex)
	fixed = newlineCommand.ReplaceAllString(fixed, `\n$1`)
	fixed = typoRepairs.Replace(fixed)
	fixed = bareCommand.ReplaceAllString(fixed, `$1\$2{`)
	return fixed
}
