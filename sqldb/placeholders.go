package sqldb

import (
	"regexp"
	"strconv"
	"strings"
)

var PlaceholderPrefixForDBType = map[string]byte{
	"mysql":  '?',
	"pgsql":  '$',
	"mssql":  '@',
	"oracle": ':',
	"sqlite": 0, // NOTE: sqlite supports all of them
}

// RewriteNamed rewrites `:name` placeholders to the dialect's own syntax
// ('?' anonymous, or prefix+ordinal like '$1') and returns the bind names
// in placeholder order. `::` is left alone (pgsql cast).
// The scan is textual; placeholders inside string literals are rewritten
// too. Known limitation, callers pass values as parameters, not literals.
func RewriteNamed(sql string, prefix byte) (string, []string) {
	var builder strings.Builder
	builder.Grow(len(sql) + 8)
	var names []string
	ord := 1
	i := 0
	for i < len(sql) {
		if sql[i] != ':' {
			builder.WriteByte(sql[i])
			i++
			continue
		}
		// Do Not Touch '::' casts
		if i+1 < len(sql) && sql[i+1] == ':' {
			builder.WriteString("::")
			i += 2
			continue
		}
		j := i + 1
		for j < len(sql) && isIdentChar(sql[j]) {
			j++
		}
		if j == i+1 { // bare ':' with no name
			builder.WriteByte(':')
			i++
			continue
		}
		names = append(names, sql[i+1:j])
		if prefix == '?' || prefix == 0 {
			builder.WriteByte('?')
		} else {
			builder.WriteByte(prefix)
			builder.WriteString(strconv.Itoa(ord))
		}
		ord++
		i = j
	}
	return builder.String(), names
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// inListPattern matches ` IN (:name)` case-insensitively and
// whitespace-tolerantly. `NOT IN (:name)` matches as well since the
// trailing `IN (...)` is the same.
func inListPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\bIN\s*\(\s*:` + regexp.QuoteMeta(name) + `\s*\)`)
}

// ExpandInList rewrites ` IN (:name)` to ` IN (:name_0, ..., :name_{n-1})`.
func ExpandInList(sql, name string, n int) string {
	placeholders := make([]string, n)
	for i := range placeholders {
		placeholders[i] = ":" + name + "_" + strconv.Itoa(i)
	}
	return inListPattern(name).ReplaceAllString(sql, "IN ("+strings.Join(placeholders, ", ")+")")
}

// CollapseEmptyInList rewrites ` IN (:name)` to ` IN (NULL)`.
// An empty `IN ()` is invalid SQL in most dialects; `IN (NULL)` is a
// well-defined always-false predicate.
func CollapseEmptyInList(sql, name string) string {
	return inListPattern(name).ReplaceAllString(sql, "IN (NULL)")
}
