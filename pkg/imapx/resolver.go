package imapx

import "strings"

// SpecialUseSigil prefixes symbolic folder references such as \Trash.
const SpecialUseSigil = "\\"

// ResolvePath maps a mailbox reference to a concrete folder path. Literal
// references pass through unchanged without an existence check; the caller's
// open or append fails naturally if the folder is absent. Special-use
// references are matched against the folder list by role flag, which keeps
// flows portable across providers that name the same role differently
// ("Deleted Items" vs "Trash"). A missing role yields ok=false, not an error.
func ResolvePath(c Client, mailboxRef string) (string, bool, error) {
	if !strings.HasPrefix(mailboxRef, SpecialUseSigil) {
		return mailboxRef, true, nil
	}

	folders, err := c.ListFolders()
	if err != nil {
		return "", false, err
	}
	for _, folder := range folders {
		if folder.SpecialUse == mailboxRef {
			return folder.Path, true, nil
		}
	}
	return "", false, nil
}

func leafName(path, delimiter string) string {
	if delimiter == "" {
		delimiter = "/"
	}
	if idx := strings.LastIndex(path, delimiter); idx >= 0 {
		return path[idx+len(delimiter):]
	}
	return path
}
