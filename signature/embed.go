package signature

import "embed"

//go:embed builtin/*.yml
var builtinFS embed.FS
