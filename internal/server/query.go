package server

import (
	"fmt"
	"regexp"
	"strings"
)

// Read-only SQL: the statement must be a SELECT and must not contain any
// keyword that modifies data or schema, even inside a second statement.
var forbiddenSQLWords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "CREATE", "ALTER", "TRUNCATE",
	"GRANT", "REVOKE", "EXEC", "EXECUTE", "MERGE", "REPLACE",
}

var (
	sqlLineComment  = regexp.MustCompile(`--[^\n]*`)
	sqlBlockComment = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	forbiddenWordRe = regexp.MustCompile(`(?i)\b(` + strings.Join(forbiddenSQLWords, "|") + `)\b`)
)

// ValidateSelectOnly returns an error if sql is not a plain SELECT query.
// It strips line (--) and block (/* */) comments before checking, requires
// the remaining text to start with SELECT, and rejects any forbidden
// keyword anywhere in the statement. A simple heuristic, not a full parser;
// it errs on the side of rejecting.
func ValidateSelectOnly(sql string) error {
	cleaned := sqlLineComment.ReplaceAllString(sql, " ")
	cleaned = sqlBlockComment.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return fmt.Errorf("empty SQL after removing comments")
	}
	if !strings.HasPrefix(strings.ToUpper(cleaned), "SELECT") {
		return fmt.Errorf("read-only queries only: statement must start with SELECT")
	}
	if loc := forbiddenWordRe.FindStringIndex(cleaned); loc != nil {
		word := strings.ToUpper(cleaned[loc[0]:loc[1]])
		return fmt.Errorf("read-only queries only: found %q", word)
	}
	return nil
}
