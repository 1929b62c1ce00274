package imapx

import "strings"

// DefaultExcludedFolders is the stock exclusion list for migrations:
// trash and junk roles plus the literal names common providers use for them.
var DefaultExcludedFolders = []string{
	"\\Trash",
	"\\Junk",
	"Junk",
	"Trash",
	"Deleted Items",
	"Junk E-mail",
	"Spam",
}

// ShouldExclude reports whether a folder matches the exclusion list, by
// special-use flag, case-insensitive full path, or case-insensitive leaf
// name. An entry also matches a whole word of the leaf, so excluding
// "Junk" catches a folder named "Old Junk". Non-selectable folders are the
// caller's concern; they are skipped regardless of this list.
func ShouldExclude(folder Folder, excludedFolders []string) bool {
	leaf := leafName(folder.Path, folder.Delimiter)
	words := strings.Fields(leaf)

	for _, excluded := range excludedFolders {
		if strings.HasPrefix(excluded, SpecialUseSigil) && folder.SpecialUse == excluded {
			return true
		}
		if strings.EqualFold(folder.Path, excluded) {
			return true
		}
		if strings.EqualFold(leaf, excluded) {
			return true
		}
		for _, word := range words {
			if strings.EqualFold(word, excluded) {
				return true
			}
		}
	}
	return false
}
