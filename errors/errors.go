package errors

import (
	"fmt"
	"strings"
)

type ErrorCode int

const (
	InternalError ErrorCode = iota
	IllegalColumn
	IllegalTypeOfArgument
	NumberOfArgumentsDoesntMatch
	CannotPrintFloat
	UnknownDatabase
	UnknownTable
	UnknownFunction
	FunctionAlreadyExists
	UnknownType
	InvalidTypeDefinition
	DuplicateColumn
	NotFoundColumnInBlock
	SizesOfColumnsDontMatch
	ArgumentOutOfBound
	CannotParseInput
	InvalidConfiguration
	UnknownFormat
	TableAlreadyExists
)

func NewInternalError(ref string) StrataError {
	return NewStrataErrorf(InternalError, "Internal error - reference %s please consult server logs for details", ref)
}

func NewIllegalColumnError(columnName string, funcName string) StrataError {
	return NewStrataErrorf(IllegalColumn, "Illegal column %s of argument of function %s", columnName, funcName)
}

func NewIllegalTypeOfArgumentError(msg string) StrataError {
	return NewStrataErrorf(IllegalTypeOfArgument, "%s", msg)
}

func NewNumberOfArgumentsDoesntMatchError(funcName string, passed int, expected int) StrataError {
	return NewStrataErrorf(NumberOfArgumentsDoesntMatch, "Number of arguments for function %s doesn't match: passed %d, should be %d",
		funcName, passed, expected)
}

func NewCannotPrintFloatError(bitSize int) StrataError {
	if bitSize == 32 {
		return NewStrataErrorf(CannotPrintFloat, "Cannot print float number")
	}
	return NewStrataErrorf(CannotPrintFloat, "Cannot print double number")
}

func NewUnknownDatabaseError(database string) StrataError {
	return NewStrataErrorf(UnknownDatabase, "Database %s doesn't exist", database)
}

func NewUnknownTableError(database string, table string) StrataError {
	return NewStrataErrorf(UnknownTable, "Table %s.%s doesn't exist", database, table)
}

func NewTableAlreadyExistsError(database string, table string) StrataError {
	return NewStrataErrorf(TableAlreadyExists, "Table %s.%s already exists", database, table)
}

func NewUnknownFunctionError(funcName string) StrataError {
	return NewStrataErrorf(UnknownFunction, "Unknown function %s", funcName)
}

func NewFunctionAlreadyExistsError(funcName string) StrataError {
	return NewStrataErrorf(FunctionAlreadyExists, "Function %s already registered", funcName)
}

func NewUnknownTypeError(typeName string) StrataError {
	return NewStrataErrorf(UnknownType, "Unknown data type family: %s", typeName)
}

func NewInvalidTypeDefinitionError(msg string) StrataError {
	return NewStrataErrorf(InvalidTypeDefinition, "%s", msg)
}

func NewDuplicateColumnError(columnName string) StrataError {
	return NewStrataErrorf(DuplicateColumn, "Column %s already exists in block", columnName)
}

func NewNotFoundColumnInBlockError(columnName string, existing []string) StrataError {
	return NewStrataErrorf(NotFoundColumnInBlock, "Not found column %s in block. There are only columns: %s",
		columnName, strings.Join(existing, ", "))
}

func NewSizesOfColumnsDontMatchError(columnName string, size int, expected int) StrataError {
	return NewStrataErrorf(SizesOfColumnsDontMatch, "Sizes of columns doesn't match: %s has %d rows, expected %d",
		columnName, size, expected)
}

func NewArgumentOutOfBoundError(msg string) StrataError {
	return NewStrataErrorf(ArgumentOutOfBound, "%s", msg)
}

func NewCannotParseInputError(msg string) StrataError {
	return NewStrataErrorf(CannotParseInput, "Cannot parse input: %s", msg)
}

func NewInvalidConfigurationError(msg string) StrataError {
	return NewStrataErrorf(InvalidConfiguration, "Invalid configuration: %s", msg)
}

func NewUnknownFormatError(format string) StrataError {
	return NewStrataErrorf(UnknownFormat, "Unknown output format %s", format)
}

func NewStrataErrorf(errorCode ErrorCode, msgFormat string, args ...interface{}) StrataError {
	msg := fmt.Sprintf(fmt.Sprintf("STR%04d - %s", errorCode, msgFormat), args...)
	return StrataError{Code: errorCode, Msg: msg}
}

func NewStrataError(errorCode ErrorCode, msg string) StrataError {
	return StrataError{Code: errorCode, Msg: msg}
}

// StrataError is any kind of error that is exposed to the user via external interfaces like the CLI
type StrataError struct {
	Code ErrorCode
	Msg  string
}

func (u StrataError) Error() string {
	return u.Msg
}

// HasCode reports whether err, or any error it wraps, is a StrataError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var serr StrataError
	if As(err, &serr) {
		return serr.Code == code
	}
	return false
}

// MaybeAddStack wraps err with a stack trace unless it is a StrataError, which are returned to the user as-is.
func MaybeAddStack(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(StrataError); !ok {
		return WithStack(err)
	}
	return err
}
