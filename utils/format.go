package utils

import "fmt"

// FormatDuration renders a duration in seconds as "M:SS". Minutes are not
// rolled over into hours, so 3661s renders as "61:01". Every stored video
// row uses this format.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
