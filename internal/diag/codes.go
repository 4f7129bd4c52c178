package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexUnterminatedExpr   Code = 1003
	LexUnterminatedMacro  Code = 1004
	LexBadNumber          Code = 1005

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynUnclosedTag     Code = 2002
	SynMismatchedClose Code = 2003
	SynStrayClose      Code = 2004
	SynExpectTagName   Code = 2005
	SynExpectAttrValue Code = 2006
	SynMacroBody       Code = 2007
)

func (c Code) String() string {
	return fmt.Sprintf("WEFT%04d", uint16(c))
}
