package config

import "strings"

const SourceFileExt = ".sdp.yaml"

// SourceFileExtensions are all recognized tree file extensions
var SourceFileExtensions = []string{".sdp.yaml", ".sdp.yml"}

// HasSourceExt reports whether path ends in a recognized tree file extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// TrimSourceExt removes a recognized tree file extension from path.
func TrimSourceExt(path string) string {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}

// Project file names, searched from the source directory upwards.
var ProjectFileNames = []string{"serendipity.yaml", "serendipity.yml"}

// Reserved names introduced by lowering
const (
	EntryName     = "__start"
	DiscardName   = "_"
	IntrinsicRoot = "__core"
)

// Intrinsics reachable as __core.<name>
const (
	PrintStmtIntrinsic = "print_stmt"
	ToStrIntrinsic     = "to_str"
	StrCatIntrinsic    = "str_cat"
	StrSplitIntrinsic  = "str_split"
	SeqIntrinsic       = "seq"
)

// Prelude names bound in every root scope
const (
	PrintFuncName    = "print"
	ToStrFuncName    = "to_str"
	StrCatFuncName   = "str_cat"
	StrSplitFuncName = "str_split"
)

// PreludeNames maps each prelude name to the intrinsic it stands for.
var PreludeNames = map[string]string{
	PrintFuncName:    PrintStmtIntrinsic,
	ToStrFuncName:    ToStrIntrinsic,
	StrCatFuncName:   StrCatIntrinsic,
	StrSplitFuncName: StrSplitIntrinsic,
}

// IntrinsicName returns the qualified name of an intrinsic, e.g. __core.seq.
func IntrinsicName(name string) string {
	return IntrinsicRoot + "." + name
}

// IsIntrinsicName reports whether name refers into the intrinsic namespace.
func IsIntrinsicName(name string) bool {
	return name == IntrinsicRoot || strings.HasPrefix(name, IntrinsicRoot+".")
}
