package source

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Naming rule of the exchange dumps: TFL2_TAQ_{contract}_{yyyymm}.csv, e.g.
// TFL2_TAQ_T1803_201801.csv. The looser patterns cover hand-renamed files.
var contractPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)TAQ_([A-Za-z0-9]+)_\d{6}\.csv$`),
	regexp.MustCompile(`(?i)TFL2_TAQ_([A-Za-z0-9]+)_\d{6}`),
	regexp.MustCompile(`([A-Za-z]{1,2}\d{3,4})`),
	regexp.MustCompile(`([A-Za-z]{1,2})_?(\d{4})`),
}

// ExtractContract infers the contract code from a tick file name. Falls back
// to the bare file name when no pattern matches, the caller always gets a
// usable symbol.
func ExtractContract(path string) string {
	name := filepath.Base(path)

	for _, pattern := range contractPatterns {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		code := m[1]
		if len(m) > 2 {
			code += m[2]
		}
		return strings.ToUpper(code)
	}

	return strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name)))
}
