package domain

const DefaultIcon = "package"

// knownIcons is the fixed local icon set categories may reference.
var knownIcons = map[string]struct{}{
	"diamond":      {},
	"wrench":       {},
	"package":      {},
	"party-popper": {},
	"toy-brick":    {},
	"gift":         {},
	"boxes":        {},
}

func ResolveIcon(key string) string {
	if _, ok := knownIcons[key]; ok {
		return key
	}
	return DefaultIcon
}
