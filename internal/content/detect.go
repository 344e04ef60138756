package content

import (
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/config"
	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Detect resolves which content definition applies to a raw content item, in
// priority order:
//
//  1. An explicit front-matter type matching a known definition id.
//  2. A definition whose path prefix matches the origin path. When several
//     definitions match, the last-declared one wins.
//  3. The definition flagged default.
//
// No match and no default is a hard error; a build cannot proceed with an
// untyped content item.
func Detect(explicitType, originPath string, defs []*config.ContentDefinition) (*config.ContentDefinition, error) {
	if explicitType != "" {
		for _, d := range defs {
			if d.ID == explicitType {
				return d, nil
			}
		}
	}

	var byPrefix *config.ContentDefinition
	for _, d := range defs {
		for _, prefix := range d.Paths {
			if strings.HasPrefix(originPath, prefix) {
				byPrefix = d
			}
		}
	}
	if byPrefix != nil {
		return byPrefix, nil
	}

	for _, d := range defs {
		if d.Default {
			return d, nil
		}
	}

	return nil, sgerrors.UnresolvedType(originPath)
}
