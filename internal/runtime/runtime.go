// Package runtime documents the external assembly runtime that codegen's
// emitted text assumes is linked in downstream (linking and assembling are
// explicitly out of scope, §1). It contributes no implementation, only the
// symbol names codegen is allowed to reference, so the two sides can't drift
// apart silently.
package runtime

// Symbol names codegen may emit `call` instructions against. Each print_*
// routine takes its argument in the platform's first integer/float argument
// register and returns nothing; integer_power takes base/exponent in the
// first two integer argument registers and returns the result in %rax;
// str_equal/str_not_equal take two string pointers and return a boolean in
// %rax; check_bounds takes an index and a length and either returns or
// aborts the program.
const (
	PrintInteger   = "print_integer"
	PrintString    = "print_string"
	PrintBoolean   = "print_boolean"
	PrintCharacter = "print_character"
	PrintDouble    = "print_double"
	IntegerPower   = "integer_power"
	StrEqual       = "str_equal"
	StrNotEqual    = "str_not_equal"
	CheckBounds    = "check_bounds"
)

// PrintFuncFor returns the runtime print routine for a print statement
// argument of the given B-minor type name ("integer", "string", "boolean",
// "character", "double"), or "" if values of that kind cannot be printed
// (caught earlier by the type checker's print-argument rule).
func PrintFuncFor(kind string) string {
	switch kind {
	case "integer":
		return PrintInteger
	case "string":
		return PrintString
	case "boolean":
		return PrintBoolean
	case "character":
		return PrintCharacter
	case "double":
		return PrintDouble
	default:
		return ""
	}
}
