// Package filter описывает предикаты выборки, которые одинаково применяются
// к SQL-запросам и к записям в памяти.
package filter

import (
	"fmt"
	"strings"
)

// Cond - условие равенства значения колонки.
type Cond struct {
	Column string
	Value  any
}

// Eq создаёт условие column = value.
func Eq(column string, value any) Cond {
	return Cond{Column: column, Value: value}
}

// Record - сущность, умеющая отдавать значение колонки по имени.
type Record interface {
	ColumnValue(column string) (any, bool)
}

// Predicate - конъюнкция условий. Пустой предикат совпадает с любой записью.
type Predicate struct {
	conds []Cond
}

// Where собирает предикат из условий.
func Where(conds ...Cond) Predicate {
	return Predicate{conds: append([]Cond(nil), conds...)}
}

// And возвращает новый предикат с дополнительными условиями.
func (p Predicate) And(conds ...Cond) Predicate {
	merged := make([]Cond, 0, len(p.conds)+len(conds))
	merged = append(merged, p.conds...)
	merged = append(merged, conds...)
	return Predicate{conds: merged}
}

// Conds возвращает копию условий.
func (p Predicate) Conds() []Cond {
	return append([]Cond(nil), p.conds...)
}

// IsEmpty сообщает, что предикат не содержит условий.
func (p Predicate) IsEmpty() bool {
	return len(p.conds) == 0
}

// SQL рендерит предикат в WHERE-фрагмент с позиционными параметрами pgx.
// alias - префикс таблицы (может быть пустым), argOffset - число уже занятых параметров.
// Для пустого предиката возвращается "TRUE".
func (p Predicate) SQL(alias string, argOffset int) (string, []any) {
	if len(p.conds) == 0 {
		return "TRUE", nil
	}

	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}

	parts := make([]string, 0, len(p.conds))
	args := make([]any, 0, len(p.conds))
	for i, c := range p.conds {
		parts = append(parts, fmt.Sprintf("%s%s = $%d", prefix, c.Column, argOffset+i+1))
		args = append(args, c.Value)
	}

	return strings.Join(parts, " AND "), args
}

// Match проверяет запись в памяти. Неизвестная колонка означает несовпадение.
func (p Predicate) Match(r Record) bool {
	for _, c := range p.conds {
		v, ok := r.ColumnValue(c.Column)
		if !ok || v != c.Value {
			return false
		}
	}

	return true
}
