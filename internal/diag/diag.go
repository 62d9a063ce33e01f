// Package diag implements the closed error taxonomy and the three fixed
// stderr message formats from spec section 7. Every pipeline stage
// (reader, lexer, parser, include resolver, semantic analyzer,
// interpreter) returns *Error values from here instead of ad-hoc
// fmt.Errorf, so that the CLI layer can render them identically
// regardless of which stage produced them.
package diag

import (
	"fmt"

	"github.com/vela-lang/vela/pkg/position"
)

// Kind is one entry of the closed error taxonomy from spec section 7.
type Kind string

// Pipeline-fatal kinds (reader, lexer, parser, include, semantic).
const (
	ReaderControlChar Kind = "ReaderControlChar"
	ReaderInputError  Kind = "ReaderInputError"

	IdentifierTooLong  Kind = "IdentifierTooLong"
	CommentTooLong     Kind = "CommentTooLong"
	InvalidHexChar     Kind = "InvalidHexChar"
	UnknownEscape      Kind = "UnknownEscape"
	NewlineInString    Kind = "NewlineInString"
	UnterminatedString Kind = "UnterminatedString"
	StringTooLong      Kind = "StringTooLong"
	IntWithLeadingZero Kind = "IntWithLeadingZero"
	IntTooLarge        Kind = "IntTooLarge"
	InvalidExponent    Kind = "InvalidExponent"
	UnknownToken       Kind = "UnknownToken"

	SyntaxError Kind = "SyntaxError"

	DuplicateStruct   Kind = "DuplicateStruct"
	DuplicateVariant  Kind = "DuplicateVariant"
	DuplicateFunction Kind = "DuplicateFunction"
	FileOpen          Kind = "FileOpen"

	UnknownFieldType      Kind = "UnknownFieldType"
	FieldTypeRecursion    Kind = "FieldTypeRecursion"
	NameCollision         Kind = "NameCollision"
	FieldNameCollision    Kind = "FieldNameCollision"
	FieldTypeCollision    Kind = "FieldTypeCollision"
	VariableNameCollision Kind = "VariableNameCollision"
	UnknownVariable       Kind = "UnknownVariable"
	InvalidCast           Kind = "InvalidCast"
	FieldAccess           Kind = "FieldAccess"
	InvalidOperatorArgs   Kind = "InvalidOperatorArgs"
	InvalidInitList       Kind = "InvalidInitList"
	Immutable             Kind = "Immutable"
	InvalidFunctionCall    Kind = "InvalidFunctionCall"
	AmbiguousFunctionCall  Kind = "AmbiguousFunctionCall"
	InvalidReturn          Kind = "InvalidReturn"
	InvalidBreak           Kind = "InvalidBreak"
	InvalidContinue        Kind = "InvalidContinue"
	InvalidIfCondition     Kind = "InvalidIfCondition"
	InvalidOverload        Kind = "InvalidOverload"
)

// Runtime-fatal kinds.
const (
	BuiltinFunctionArgument Kind = "BuiltinFunctionArgument"
	IntegerRange            Kind = "IntegerRange"
	StandardInput           Kind = "StandardInput"
	StandardOutput          Kind = "StandardOutput"
	MainNotFound            Kind = "MainNotFound"
	MainReturnType          Kind = "MainReturnType"
	CastImpossible          Kind = "CastImpossible"
	OperatorArgument        Kind = "OperatorArgument"
	ZeroDivision            Kind = "ZeroDivision"
	StackOverflow           Kind = "StackOverflow"
)

// CLI-level kinds.
const (
	NoFiles       Kind = "NoFiles"
	DuplicateFile Kind = "DuplicateFile"
)

// Error is a positioned, source-attributed error from any pipeline
// stage. Runtime distinguishes the §7 "runtime error" wrapper from the
// "parse/semantic/pre-execution" wrapper; the wording is otherwise
// identical in shape.
type Error struct {
	Kind    Kind
	Message string
	Pos     position.Position
	File    string
	Runtime bool
}

// Error implements the error interface using the exact stderr formats
// mandated by spec section 7. This formatting is never routed through
// the verbose/logrus channel: it is a stable, tested contract.
func (e *Error) Error() string {
	if e.Runtime {
		return fmt.Sprintf(
			"The program was terminated following a runtime error:\n%s\nwhile executing file %s\nat %s.\n",
			e.Message, e.File, e.Pos,
		)
	}
	return fmt.Sprintf("Error: %s\nin file %s\nat %s.\n", e.Message, e.File, e.Pos)
}

// New builds a pipeline-stage error (reader/lexer/parser/include/semantic).
func New(kind Kind, pos position.Position, file, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos, File: file}
}

// NewRuntime builds a runtime-stage error (raised during interpretation).
func NewRuntime(kind Kind, pos position.Position, file, format string, args ...any) *Error {
	e := New(kind, pos, file, format, args...)
	e.Runtime = true
	return e
}

// CLIError is raised by the command-line front end itself, before any
// file is even opened — it carries no source position.
type CLIError struct {
	Message string
}

func (e *CLIError) Error() string {
	return fmt.Sprintf("The interpreter's command line interface encountered an error:\n%s\n", e.Message)
}

// NewCLI builds a CLI-level error.
func NewCLI(format string, args ...any) *CLIError {
	return &CLIError{Message: fmt.Sprintf(format, args...)}
}
