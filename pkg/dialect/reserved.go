package dialect

// reservedWords is the shared reserved-identifier list: the union of
// the commonly problematic keywords of SQLite, PostgreSQL, and SQL
// Server. One list for every dialect keeps the quoting decision for a
// given identifier identical across engines, so compiled statements
// stay structurally comparable.
var reservedWords = map[string]bool{}

func init() {
	for _, w := range []string{
		// ANSI core, reserved everywhere
		"all", "and", "any", "as", "asc", "between", "by", "case", "cast",
		"check", "collate", "column", "constraint", "create", "cross",
		"current_date", "current_time", "current_timestamp", "current_user",
		"default", "delete", "desc", "distinct", "drop", "else", "end",
		"escape", "except", "exists", "fetch", "for", "foreign", "from",
		"full", "grant", "group", "having", "in", "index", "inner", "insert",
		"intersect", "into", "is", "join", "left", "like", "natural", "not",
		"null", "offset", "on", "or", "order", "outer", "primary",
		"references", "right", "select", "set", "some", "table", "then",
		"to", "union", "unique", "update", "using", "values", "when",
		"where", "with",
		// PostgreSQL additions
		"analyse", "analyze", "asymmetric", "authorization", "binary",
		"both", "concurrently", "deferrable", "do", "freeze", "ilike",
		"initially", "isnull", "lateral", "leading", "limit", "localtime",
		"localtimestamp", "notnull", "only", "overlaps", "placing",
		"returning", "session_user", "similar", "symmetric", "trailing",
		"user", "variadic", "verbose", "window",
		// SQL Server additions
		"backup", "begin", "break", "bulk", "clustered", "compute",
		"contains", "database", "declare", "deny", "disk", "dump", "exec",
		"execute", "file", "holdlock", "identity", "key", "kill", "lineno",
		"merge", "nocheck", "nonclustered", "off", "offsets", "open",
		"option", "over", "percent", "pivot", "plan", "print", "proc",
		"procedure", "public", "raiserror", "read", "readtext", "replication",
		"restore", "revert", "rowcount", "rule", "save", "schema",
		"securityaudit", "shutdown", "statistics", "tablesample", "top",
		"tran", "transaction", "trigger", "truncate", "unpivot", "updatetext",
		"view", "waitfor", "writetext",
		// SQLite additions
		"abort", "attach", "autoincrement", "conflict", "detach", "glob",
		"indexed", "instead", "pragma", "raise", "regexp", "reindex",
		"rowid", "vacuum", "without",
	} {
		reservedWords[w] = true
	}
}

// IsReservedWord reports whether name (case-insensitive) is on the
// shared reserved list.
func IsReservedWord(name string) bool {
	return reservedWords[lowerASCII(name)]
}

// NeedsQuoting reports whether an identifier must be quoted: reserved
// words, names that are not plain words (letters, digits, underscore,
// not digit-leading), and the empty string.
func NeedsQuoting(name string) bool {
	if name == "" {
		return true
	}
	if IsReservedWord(name) {
		return true
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return true
			}
		default:
			return true
		}
	}
	return false
}

// lowerASCII lowercases without allocating for already-lower input.
func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
