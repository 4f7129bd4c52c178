// Package format renders a parsed weft node tree back into canonically
// formatted source text.
//
// Назначение: двухфазное преобразование — сырые узлы нормализуются в
// сегменты (segment.go), сегменты рекурсивно печатаются с отступами
// (render.go). Не делает: парсинга, IO и канонизации выражений (она
// приходит извне через Canonicalizer).
package format
