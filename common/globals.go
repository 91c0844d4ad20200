package common

// GoneVersion is the current compiler version as a string.
const GoneVersion string = "0.1.0"

// ListingFileExt is the file extension for a three-address listing produced by
// the front end.
const ListingFileExt string = ".mir"

// LLVMFileExt is the file extension of generated LLVM IR text.
const LLVMFileExt string = ".ll"

// ProfileFileName is the name of the optional build profile looked up next to
// the listing being compiled.
const ProfileFileName string = "gone-profile.toml"

// Default names of the runtime print routines the generated code calls.
const (
	RuntimePrintInt   = "_print_int"
	RuntimePrintFloat = "_print_float"
	RuntimePrintBool  = "_print_bool"
)

// EntryFuncName is the name of the generated function holding the program.
const EntryFuncName = "main"
