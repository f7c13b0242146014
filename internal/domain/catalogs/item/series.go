package item

import (
	"fmt"
	"strconv"
	"strings"
)

// MakeAbbr joins the first ASCII letter of each word of name, upper-cased.
// Words without a letter are skipped.
func MakeAbbr(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if ('A' <= r && r <= 'Z') || ('a' <= r && r <= 'z') {
				b.WriteString(strings.ToUpper(string(r)))
				break
			}
		}
	}
	return b.String()
}

// SeriesPrefix returns the code prefix of items in a group: the parent
// group's abbreviation and the group's, joined by a dash.
func SeriesPrefix(parentName, groupName string) string {
	return MakeAbbr(parentName) + "-" + MakeAbbr(groupName)
}

// NextInSeries returns prefix-NNNN one past the highest number found among
// codes. Codes outside the series are ignored.
func NextInSeries(prefix string, codes []string) string {
	last := 0
	for _, c := range codes {
		rest, ok := strings.CutPrefix(c, prefix+"-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			continue
		}
		last = max(last, n)
	}
	return fmt.Sprintf("%s-%04d", prefix, last+1)
}
