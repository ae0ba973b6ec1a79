package diagnostics

// ErrorCode identifies a diagnostic kind. Coherence codes use the C prefix;
// parser and analyzer phases own the P and A ranges.
type ErrorCode string

const (
	ErrC001 ErrorCode = "C001" // destructor capability on a non-local or non-ADT type
	ErrC002 ErrorCode = "C002" // copy capability on a non-ADT type
	ErrC003 ErrorCode = "C003" // copy capability on a type with a destructor
	ErrC004 ErrorCode = "C004" // copy capability not satisfied by one or more fields
	ErrC005 ErrorCode = "C005" // widening between non-struct shapes
	ErrC006 ErrorCode = "C006" // widening between distinct base definitions
	ErrC007 ErrorCode = "C007" // widening with no coerced field
	ErrC008 ErrorCode = "C008" // widening with multiple coerced fields
	ErrC009 ErrorCode = "C009" // immutable to mutable pointer conversion
	ErrC010 ErrorCode = "C010" // dyn-adapt between distinct base definitions
	ErrC011 ErrorCode = "C011" // dyn-adapt on a foreign-call-compatible or packed layout
	ErrC012 ErrorCode = "C012" // dyn-adapt field cannot be dispatched
	ErrC013 ErrorCode = "C013" // dyn-adapt with no coerced field
	ErrC014 ErrorCode = "C014" // dyn-adapt with multiple coerced fields
	ErrC015 ErrorCode = "C015" // dyn-adapt between non-struct shapes
	ErrC016 ErrorCode = "C016" // dyn-adapt mutability mismatch
	ErrC017 ErrorCode = "C017" // unmet capability obligation
	ErrC018 ErrorCode = "C018" // region outlives requirement not satisfied
)
