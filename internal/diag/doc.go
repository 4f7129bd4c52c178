// Package diag определяет диагностики (код, severity, span) и контейнер Bag
// с детерминированной сортировкой и дедупликацией.
// Не делает: форматирования вывода (см. internal/diagfmt) и IO.
package diag
