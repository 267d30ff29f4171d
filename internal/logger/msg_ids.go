package logger

// MsgID lets a caller turn a specific diagnostic on or off (e.g. to silence
// a warning class) without string-matching message text. Errors don't need
// one since an error can't be downgraded to a non-error.
type MsgID uint8

const (
	MsgID_None MsgID = iota

	// AMD-to-CJS
	MsgID_AMD_UnsupportedDefineSignature
	MsgID_AMD_NonTopLevelStatementDefine
	MsgID_AMD_RequireJSPluginsNotSupported

	// CJS-to-Namespaced
	MsgID_CJS_UnresolvableRequire
)

func (id MsgID) String() string {
	switch id {
	case MsgID_AMD_UnsupportedDefineSignature:
		return "unsupported-define-signature"
	case MsgID_AMD_NonTopLevelStatementDefine:
		return "non-top-level-statement-define"
	case MsgID_AMD_RequireJSPluginsNotSupported:
		return "requirejs-plugins-not-supported"
	case MsgID_CJS_UnresolvableRequire:
		return "unresolvable-require"
	default:
		return ""
	}
}
