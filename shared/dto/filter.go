package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLess      = "less"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreater   = "greater"
	FilterOperatorGreaterEq = "greater_eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLess:      "<",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreater:   ">",
	FilterOperatorGreaterEq: ">=",
}

// Filter is one predicate of a WHERE clause, rendered with sqlx named
// parameters. ArgName disambiguates two predicates on the same column, such as
// the two ends of a time window.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq not_eq less less_eq greater greater_eq like in"`
	Table    string
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) argName() string {
	if f.ArgName == "" {
		return f.Field
	}

	return f.ArgName
}

// GetWhereClause renders the predicate and its arguments. An unknown operator
// renders nothing.
func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	name := f.argName()

	if op, ok := comparisons[f.Operator]; ok {
		args[name] = f.Value

		return fmt.Sprintf("%s %s :%s", f.column(), op, name), args
	}

	switch f.Operator {
	case FilterOperatorLike:
		args[name] = fmt.Sprintf("%%%v%%", f.Value)

		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s)", f.column(), name), args
	case FilterOperatorIn:
		val := reflect.ValueOf(f.Value)
		if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
			return "", args
		}

		// An empty set matches nothing.
		if val.Len() == 0 {
			return "FALSE", args
		}

		placeholders := make([]string, val.Len())

		for i := range val.Len() {
			key := fmt.Sprintf("%s_%d", name, i)
			args[key] = val.Index(i).Interface()
			placeholders[i] = ":" + key
		}

		return fmt.Sprintf("%s IN (%s)", f.column(), strings.Join(placeholders, ", ")), args
	}

	return "", args
}

// FilterGroup joins filters and nested groups with Operator, AND by default.
// Like filters with an empty value are dropped so optional search terms can be
// passed through unchecked.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := make([]string, 0, len(f.Filters))

	for _, item := range f.Filters {
		var (
			clause string
			arg    map[string]any
		)

		switch filter := item.(type) {
		case Filter:
			if filter.Operator == FilterOperatorLike && filter.Value == "" {
				continue
			}

			clause, arg = filter.GetWhereClause()
		case FilterGroup:
			clause, arg = filter.GetWhereClause()
		}

		if clause == "" {
			continue
		}

		clauses = append(clauses, clause)
		maps.Copy(args, arg)
	}

	if len(clauses) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return "(" + strings.Join(clauses, " "+operator+" ") + ")", args
}
