package errors

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// keyword rule used when an error carries no typed cause
type keywordRule struct {
	keywords  []string
	category  string
	sanitized string
}

var keywordRules = []keywordRule{
	{[]string{"timeout", "deadline"}, CategoryTimeout, "request timed out"},
	{[]string{"not found", "no rows"}, CategoryNotFound, "resource not found"},
	{[]string{"database", "sql", "postgres", "pgx"}, CategoryDatabase, "database operation failed"},
	{[]string{"redis", "connection", "network", "dial"}, CategoryNetwork, "connection error occurred"},
	{[]string{"validation", "binding", "invalid", "required", "json"}, CategoryValidation, "validation failed"},
	{[]string{"unauthorized", "token", "bcrypt", "auth"}, CategoryAuth, "permission denied"},
}

// analyzes an error and returns its category and the message safe to show the caller
func classifyError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{CategoryUnknown, ""}
	}

	category, generic := categorize(err)

	if os.Getenv("ENVIRONMENT") == "production" {
		return ErrorInfo{category, generic}
	}

	return ErrorInfo{category, err.Error()}
}

func categorize(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 23: integrity constraint violations, e.g. a duplicate email
		if strings.HasPrefix(pgErr.Code, "23") {
			return CategoryValidation, "validation failed"
		}

		return CategoryDatabase, "database operation failed"
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return CategoryNotFound, "resource not found"
	case errors.Is(err, context.DeadlineExceeded):
		return CategoryTimeout, "request timed out"
	case errors.Is(err, context.Canceled):
		return CategoryTimeout, "request canceled"
	}

	msg := strings.ToLower(err.Error())

	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				return rule.category, rule.sanitized
			}
		}
	}

	return CategoryUnknown, "an error occurred"
}
