// Package schemas embeds the JSON Schema documents for the profile optimizer's wire formats.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
